// Package querybuilder turns (template name, binding) pairs into
// ready-to-execute SQL for a specific dialect.
package querybuilder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dialect"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/templates"
)

const unionSeparator = "\nUNION ALL\n"

var leftoverTokenPattern = regexp.MustCompile(`\{[A-Z][A-Z0-9_]*\}`)

// Builder composes queries for one dialect.
type Builder struct {
	dialect dialect.Dialect
}

// New creates a Builder for the given dialect.
func New(d dialect.Dialect) *Builder {
	return &Builder{dialect: d}
}

// Build expands a named template with the binding and applies the dialect's
// function-rewrite pass. Pure: identical inputs produce identical SQL.
func (b *Builder) Build(templateName string, binding *Binding) (string, error) {
	tmpl, err := templates.Get(templateName)
	if err != nil {
		return "", err
	}
	return b.BuildRaw(tmpl, binding)
}

// BuildRaw expands raw template text instead of a catalog entry. Used for
// anomaly criteria and prevalence formulas that arrive from the metadata
// store rather than the compiled-in catalog.
func (b *Builder) BuildRaw(tmpl string, binding *Binding) (string, error) {
	sql := binding.replacer().Replace(tmpl)

	sql, err := dialect.ApplyRewrites(sql, b.dialect)
	if err != nil {
		return "", fmt.Errorf("dialect rewrite: %w", err)
	}

	// Rewrites may emit tokens of their own (the QC utility schema).
	sql = binding.replacer().Replace(sql)

	if leftover := leftoverTokenPattern.FindString(sql); leftover != "" {
		return "", fmt.Errorf("unbound template token %s", leftover)
	}

	return strings.TrimSpace(sql), nil
}

// BuildChunked composes many built queries into UNION ALL batches, each at
// most maxChars long. A single query longer than maxChars is an error: it
// cannot be split further.
func BuildChunked(queries []string, maxChars int) ([]string, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("maxChars must be positive, got %d", maxChars)
	}

	var batches []string
	var current strings.Builder

	for _, q := range queries {
		if len(q) > maxChars {
			return nil, fmt.Errorf("query of %d chars exceeds max_query_chars %d and cannot be split", len(q), maxChars)
		}

		if current.Len() == 0 {
			current.WriteString(q)
			continue
		}

		if current.Len()+len(unionSeparator)+len(q) > maxChars {
			batches = append(batches, current.String())
			current.Reset()
			current.WriteString(q)
			continue
		}

		current.WriteString(unionSeparator)
		current.WriteString(q)
	}

	if current.Len() > 0 {
		batches = append(batches, current.String())
	}
	return batches, nil
}
