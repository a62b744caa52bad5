// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package paste is the paste service: the policy layer that composes
// the content-addressed document store and the slug directory under
// validation and authorization rules.
//
// Per slug the legal lifecycle is absent → live → (edited →)* live →
// absent. Documents only ever accumulate: an edit binds the slug to a
// new document and abandons the old one, and delete removes only the
// binding. Unreferenced documents are an accepted cost, not a leak to
// fix here.
package paste

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwell-sh/inkwell/lib/document"
	"github.com/inkwell-sh/inkwell/lib/slugdir"
)

// DefaultMaxContentSize is the content byte ceiling when the service
// config does not set one.
const DefaultMaxContentSize = 200_000

// generateAttempts bounds how many random slugs Create tries before
// giving up. A collision means an existing slug matched an 8-char
// random draw, so a second failure in a row points at a near-full
// namespace, not bad luck.
const generateAttempts = 4

// Config holds the service's collaborators and limits.
type Config struct {
	// Documents is the content-addressed document store.
	Documents *document.Store

	// Slugs is the slug directory.
	Slugs *slugdir.Directory

	// MaxContentSize is the content byte ceiling. Zero means
	// DefaultMaxContentSize.
	MaxContentSize int

	// Logger receives full detail for internal faults. If nil, a
	// no-op logger is used.
	Logger *slog.Logger
}

// Service implements create, edit, delete, and read for pastes. Safe
// for concurrent use; all multi-step state transitions funnel the
// racy step (claiming a slug) through the directory's atomic
// PutIfAbsent, so two concurrent creates of the same slug resolve to
// one winner and one ErrSlugTaken.
type Service struct {
	documents      *document.Store
	slugs          *slugdir.Directory
	maxContentSize int
	logger         *slog.Logger
}

// NewService constructs a Service from cfg. Documents and Slugs are
// required.
func NewService(cfg Config) *Service {
	maxContentSize := cfg.MaxContentSize
	if maxContentSize <= 0 {
		maxContentSize = DefaultMaxContentSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		documents:      cfg.Documents,
		slugs:          cfg.Slugs,
		maxContentSize: maxContentSize,
		logger:         logger,
	}
}

// CreateRequest is the input to Create. Slug and EditCode are
// optional; empty means "generate one for me".
type CreateRequest struct {
	Slug     string
	EditCode string
	Content  string
}

// CreateResult is the successful outcome of Create: the slug the
// paste is reachable under and the edit code that authorizes changing
// it. The edit code is returned exactly once and is not recoverable
// later.
type CreateResult struct {
	Slug     string
	EditCode string
}

// Create validates the request, stores the content, and binds a slug
// to it. Custom slugs that are already bound fail with ErrSlugTaken;
// generated slugs retry a bounded number of times on collision.
func (s *Service) Create(ctx context.Context, request CreateRequest) (CreateResult, error) {
	if err := s.validateContent(request.Content); err != nil {
		return CreateResult{}, err
	}
	if request.Slug != "" {
		if err := slugdir.ValidateSlug(request.Slug); err != nil {
			return CreateResult{}, &ValidationError{Field: "slug", Reason: err.Error()}
		}
	}
	if request.EditCode != "" {
		if err := slugdir.ValidateEditCode(request.EditCode); err != nil {
			return CreateResult{}, &ValidationError{Field: "edit_code", Reason: err.Error()}
		}
	}

	editCode := request.EditCode
	if editCode == "" {
		generated, err := slugdir.GenerateEditCode()
		if err != nil {
			return CreateResult{}, s.internal("create", "", err)
		}
		editCode = generated
	}

	hash, err := s.documents.Insert(ctx, request.Content)
	if err != nil {
		return CreateResult{}, s.internal("create", request.Slug, err)
	}
	record := slugdir.Record{DocumentHash: hash, EditCode: editCode}

	// Claiming the slug is the only step where concurrent requests
	// can collide; PutIfAbsent makes it atomic, so the existence
	// check and the insert cannot be interleaved by another caller.
	if request.Slug != "" {
		inserted, err := s.slugs.PutIfAbsent(ctx, request.Slug, record)
		if err != nil {
			return CreateResult{}, s.internal("create", request.Slug, err)
		}
		if !inserted {
			return CreateResult{}, fmt.Errorf("slug %q: %w", request.Slug, ErrSlugTaken)
		}
		return CreateResult{Slug: request.Slug, EditCode: editCode}, nil
	}

	for range generateAttempts {
		slug, err := slugdir.GenerateSlug()
		if err != nil {
			return CreateResult{}, s.internal("create", "", err)
		}
		inserted, err := s.slugs.PutIfAbsent(ctx, slug, record)
		if err != nil {
			return CreateResult{}, s.internal("create", slug, err)
		}
		if inserted {
			return CreateResult{Slug: slug, EditCode: editCode}, nil
		}
	}
	s.logger.Error("slug generation kept colliding", "attempts", generateAttempts)
	return CreateResult{}, fmt.Errorf("could not generate a free slug: %w", ErrSlugTaken)
}

// Edit rebinds slug to new content. The old document record is left
// in place untouched; only the binding changes, and only after the
// supplied edit code matches the stored one.
func (s *Service) Edit(ctx context.Context, slug, editCode, content string) error {
	if err := s.validateContent(content); err != nil {
		return err
	}

	record, err := s.authorize(ctx, slug, editCode)
	if err != nil {
		return err
	}

	hash, err := s.documents.Insert(ctx, content)
	if err != nil {
		return s.internal("edit", slug, err)
	}

	record.DocumentHash = hash
	if _, _, err := s.slugs.Put(ctx, slug, record); err != nil {
		return s.internal("edit", slug, err)
	}
	return nil
}

// Delete removes the slug's binding. The referenced document stays in
// the store: it may be shared with other slugs, and the design does
// not reclaim orphans.
func (s *Service) Delete(ctx context.Context, slug, editCode string) error {
	if _, err := s.authorize(ctx, slug, editCode); err != nil {
		return err
	}
	if _, _, err := s.slugs.Remove(ctx, slug); err != nil {
		return s.internal("delete", slug, err)
	}
	return nil
}

// Read resolves slug to its current content and creation time. A
// missing slug is a normal NotFoundError. A bound slug whose document
// is missing is not: documents are never deleted by normal operation,
// so that is a consistency fault, logged and reported as internal.
func (s *Service) Read(ctx context.Context, slug string) (content string, created time.Time, err error) {
	record, found, err := s.slugs.Get(ctx, slug)
	if err != nil {
		return "", time.Time{}, s.internal("read", slug, err)
	}
	if !found {
		return "", time.Time{}, &NotFoundError{Slug: slug}
	}

	doc, found, err := s.documents.Get(ctx, record.DocumentHash)
	if err != nil {
		return "", time.Time{}, s.internal("read", slug, err)
	}
	if !found {
		s.logger.Error("slug references a missing document",
			"slug", slug,
			"document_hash", record.DocumentHash.String(),
		)
		return "", time.Time{}, fmt.Errorf("document missing for slug %q: %w", slug, ErrInternal)
	}
	return doc.Content, doc.Created, nil
}

// authorize resolves slug and checks the edit code. The comparison is
// constant-time: equal-length mismatches leak nothing about where the
// strings diverge.
func (s *Service) authorize(ctx context.Context, slug, editCode string) (slugdir.Record, error) {
	record, found, err := s.slugs.Get(ctx, slug)
	if err != nil {
		return slugdir.Record{}, s.internal("authorize", slug, err)
	}
	if !found {
		return slugdir.Record{}, &NotFoundError{Slug: slug}
	}
	if subtle.ConstantTimeCompare([]byte(record.EditCode), []byte(editCode)) != 1 {
		return slugdir.Record{}, ErrForbidden
	}
	return record, nil
}

func (s *Service) validateContent(content string) error {
	if len(content) > s.maxContentSize {
		return &ValidationError{
			Field:  "content",
			Reason: fmt.Sprintf("content is %d bytes, limit is %d", len(content), s.maxContentSize),
		}
	}
	return nil
}

// internal logs the full fault and returns the opaque ErrInternal.
func (s *Service) internal(op, slug string, err error) error {
	s.logger.Error("paste service fault",
		"op", op,
		"slug", slug,
		"error", err,
	)
	return ErrInternal
}
