// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"
)

//go:embed grammars.yaml
var grammarsYAML []byte

// grammarTable resolves fence language labels to highlighting
// grammars. Lookups hit the alias map first, then the chroma lexer
// registry; everything unrecognized falls back to the plain-text
// grammar, so an arbitrary label can never select anything outside
// the compiled-in registry.
type grammarTable struct {
	aliases  map[string]string
	fallback chroma.Lexer
}

type grammarFile struct {
	Fallback string            `yaml:"fallback"`
	Aliases  map[string]string `yaml:"aliases"`
}

func loadGrammarTable() (*grammarTable, error) {
	var file grammarFile
	if err := yaml.Unmarshal(grammarsYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing grammar table: %w", err)
	}

	fallback := lexers.Get(file.Fallback)
	if fallback == nil {
		return nil, fmt.Errorf("grammar table fallback %q not in lexer registry", file.Fallback)
	}

	return &grammarTable{
		aliases:  file.Aliases,
		fallback: fallback,
	}, nil
}

// lexerFor returns the grammar for a fence label. An empty or unknown
// label selects the fallback.
func (t *grammarTable) lexerFor(language string) chroma.Lexer {
	if language == "" {
		return t.fallback
	}
	name := strings.ToLower(language)
	if canonical, ok := t.aliases[name]; ok {
		name = canonical
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		return t.fallback
	}
	return chroma.Coalesce(lexer)
}

// styleFor resolves a highlight theme name against the chroma style
// registry. Unknown names are an error rather than a silent fallback:
// the theme is static configuration and a typo should fail at
// startup, not ship unstyled output.
func styleFor(name string) (*chroma.Style, error) {
	style, ok := styles.Registry[name]
	if !ok {
		return nil, fmt.Errorf("highlight theme %q not in style registry", name)
	}
	return style, nil
}
