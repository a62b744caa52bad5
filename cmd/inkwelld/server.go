// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-sh/inkwell/lib/paste"
	"github.com/inkwell-sh/inkwell/lib/render"
)

// server wires the paste service and renderer into the HTTP API. The
// API mirrors the service boundary one to one; no business rules live
// here, only decoding, error mapping, and logging.
type server struct {
	pastes   *paste.Service
	renderer *render.Renderer
	logger   *slog.Logger
}

func newRouter(s *server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/pastes", s.createPaste)
	api.GET("/pastes/:slug", s.getPaste)
	api.PUT("/pastes/:slug", s.editPaste)
	api.DELETE("/pastes/:slug", s.deletePaste)
	api.GET("/pastes/:slug/html", s.getPasteHTML)
	api.POST("/markdown/render", s.renderMarkdown)

	router.GET("/static/highlight.css", s.highlightCSS)

	return router
}

type createPasteRequest struct {
	CustomSlug string `json:"custom_slug"`
	EditCode   string `json:"edit_code"`
	Content    string `json:"content"`
}

type editPasteRequest struct {
	EditCode string `json:"edit_code"`
	Content  string `json:"content"`
}

type deletePasteRequest struct {
	EditCode string `json:"edit_code"`
}

type renderMarkdownRequest struct {
	Content string `json:"content"`
}

func (s *server) createPaste(c *gin.Context) {
	var request createPasteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request body"})
		return
	}

	result, err := s.pastes.Create(c.Request.Context(), paste.CreateRequest{
		Slug:     request.CustomSlug,
		EditCode: request.EditCode,
		Content:  request.Content,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"slug":      result.Slug,
		"edit_code": result.EditCode,
	})
}

func (s *server) getPaste(c *gin.Context) {
	content, created, err := s.pastes.Read(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content": content,
		"created": created.Format(time.RFC3339Nano),
	})
}

func (s *server) editPaste(c *gin.Context) {
	var request editPasteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request body"})
		return
	}
	err := s.pastes.Edit(c.Request.Context(), c.Param("slug"), request.EditCode, request.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": c.Param("slug")})
}

func (s *server) deletePaste(c *gin.Context) {
	var request deletePasteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request body"})
		return
	}
	err := s.pastes.Delete(c.Request.Context(), c.Param("slug"), request.EditCode)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) getPasteHTML(c *gin.Context) {
	content, created, err := s.pastes.Read(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	html, err := s.renderer.Render(content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"html":    html,
		"created": created.Format(time.RFC3339Nano),
	})
}

func (s *server) renderMarkdown(c *gin.Context) {
	var request renderMarkdownRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request body"})
		return
	}
	html, err := s.renderer.Render(request.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": html})
}

func (s *server) highlightCSS(c *gin.Context) {
	css, err := s.renderer.HighlightCSS()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
}

// writeError maps service errors onto HTTP responses. Expected
// outcomes carry their own message; anything else is logged in full
// and answered with an opaque 500.
func (s *server) writeError(c *gin.Context, err error) {
	var validationErr *paste.ValidationError
	var notFoundErr *paste.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Error()})
	case errors.Is(err, paste.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Error()})
	case errors.Is(err, paste.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	default:
		s.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
