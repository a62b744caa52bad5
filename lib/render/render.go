// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DefaultTheme is the chroma style used when the config names none.
const DefaultTheme = "github"

// Config holds the renderer's static configuration.
type Config struct {
	// Theme is the chroma style name for highlighted code. Unknown
	// names fail at construction. Empty means DefaultTheme.
	Theme string
}

// Renderer is the markdown-to-safe-HTML pipeline. Construct once,
// share freely: it holds no mutable state.
type Renderer struct {
	highlighted goldmark.Markdown
	plain       goldmark.Markdown
	policy      *bluemonday.Policy
	style       *chroma.Style
	formatter   *chromahtml.Formatter
}

// New builds a Renderer from the embedded grammar table and the
// configured theme.
func New(cfg Config) (*Renderer, error) {
	theme := cfg.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	style, err := styleFor(theme)
	if err != nil {
		return nil, err
	}

	table, err := loadGrammarTable()
	if err != nil {
		return nil, err
	}

	// Class-based output keeps inline CSS out of the sanitized HTML:
	// token spans carry only class attributes, which the sanitizer
	// explicitly permits. The matching stylesheet comes from
	// HighlightCSS.
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.TabWidth(4),
	)

	highlighter := &codeBlockRenderer{
		table:     table,
		style:     style,
		formatter: formatter,
	}

	extensions := goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		extension.DefinitionList,
	)
	parserOptions := goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	)

	// WithUnsafe lets raw HTML through the serializer. That is
	// deliberate: stripping happens in exactly one place, the
	// sanitizer, which runs on the complete output. Highlighted
	// fragments take the same path.
	highlighted := goldmark.New(
		extensions,
		parserOptions,
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(highlighter, 200),
			),
		),
	)
	plain := goldmark.New(
		extensions,
		parserOptions,
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)

	return &Renderer{
		highlighted: highlighted,
		plain:       plain,
		policy:      newPolicy(),
		style:       style,
		formatter:   formatter,
	}, nil
}

// Render converts markdown to sanitized HTML with fenced-code
// syntax highlighting.
func (r *Renderer) Render(source string) (string, error) {
	return r.convert(r.highlighted, source)
}

// RenderPlain converts markdown to sanitized HTML without
// highlighting: fenced code comes out as escaped <pre><code>. For
// contexts that do not ship the highlight stylesheet.
func (r *Renderer) RenderPlain(source string) (string, error) {
	return r.convert(r.plain, source)
}

// HighlightCSS returns the stylesheet matching the configured theme's
// token classes. Serve it alongside any page embedding Render output.
func (r *Renderer) HighlightCSS() (string, error) {
	var buffer bytes.Buffer
	if err := r.formatter.WriteCSS(&buffer, r.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buffer.String(), nil
}

func (r *Renderer) convert(markdown goldmark.Markdown, source string) (string, error) {
	var buffer bytes.Buffer
	if err := markdown.Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	// Mandatory last step, no exceptions.
	return r.policy.Sanitize(buffer.String()), nil
}

// codeBlockRenderer replaces goldmark's stock fenced-code rendering
// with chroma output. The block's literal text is buffered from the
// source segments, run through the grammar selected by the fence
// label, and emitted as a pre-rendered HTML fragment; all other nodes
// keep goldmark's renderers.
type codeBlockRenderer struct {
	table     *grammarTable
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// RegisterFuncs registers the fenced-code hook with goldmark.
func (r *codeBlockRenderer) RegisterFuncs(registerer renderer.NodeRendererFuncRegisterer) {
	registerer.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*ast.FencedCodeBlock)

	var code strings.Builder
	lines := block.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(source))
	}

	language := string(block.Language(source))
	lexer := r.table.lexerFor(language)

	iterator, err := lexer.Tokenise(nil, code.String())
	if err != nil {
		return ast.WalkStop, fmt.Errorf("tokenizing %q code block: %w", language, err)
	}
	if err := r.formatter.Format(w, r.style, iterator); err != nil {
		return ast.WalkStop, fmt.Errorf("formatting %q code block: %w", language, err)
	}
	return ast.WalkSkipChildren, nil
}
