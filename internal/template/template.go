// Package template expands filename templates against metadata records.
//
// # Tokens
//
// A template mixes literal text with {token} references drawn from a
// closed vocabulary: the ten simple field tokens ({artist}, {title},
// {album}, {year}, {label}, {bpm}, {key}, {camelot}, {mix}, {track})
// plus conditional composites that only render when every field they
// need is present ({mix_paren}, {key_bpm}, {camelot_bpm}).
//
// Simple tokens whose field is absent expand to the empty string, never
// to a placeholder. Unknown tokens are a validation error, reported
// token by token, never silently dropped.
//
// Example:
//
//	tmpl, err := template.Parse("{artist} - {title} {mix_paren}")
//	name := tmpl.Expand(rec) // "Deep Dish - Flashdance (Extended Mix)"
//
// Output is deliberately unsanitized; making it filesystem-safe is
// internal/sanitize's job.
package template

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/zenone/crate/internal/metadata"
)

// ErrInvalidTemplate reports a template that references tokens outside
// the recognized vocabulary, or an empty template. Matched with
// errors.Is; Validate returns the offending tokens themselves.
var ErrInvalidTemplate = errors.Base("invalid template")

// tokenPattern matches a {token} reference. Unpaired braces are left
// alone and pass through expansion as literal text.
var tokenPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// Template is a validated filename template, safe to expand against any
// record.
type Template struct {
	raw string
}

// ValidationResult is the pre-flight report for a template string,
// returned by Validate so callers can reject bad input before any file
// is touched.
type ValidationResult struct {
	Valid         bool
	InvalidTokens []string
	// SampleExpansion shows what a valid template produces for a
	// fully populated record.
	SampleExpansion string
}

// Parse validates s against the token vocabulary. The returned error
// wraps ErrInvalidTemplate and names every unknown token verbatim.
func Parse(s string) (*Template, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.Errorf("%w: template is empty", ErrInvalidTemplate)
	}
	if invalid := invalidTokens(s); len(invalid) > 0 {
		return nil, errors.Errorf("%w: unknown tokens: %s",
			ErrInvalidTemplate, strings.Join(invalid, ", "))
	}
	return &Template{raw: s}, nil
}

// Validate reports whether s parses, listing unknown tokens when it
// does not and a sample expansion when it does.
func Validate(s string) ValidationResult {
	if strings.TrimSpace(s) == "" {
		return ValidationResult{}
	}
	if invalid := invalidTokens(s); len(invalid) > 0 {
		return ValidationResult{InvalidTokens: invalid}
	}
	tmpl := &Template{raw: s}
	return ValidationResult{Valid: true, SampleExpansion: tmpl.Expand(sampleRecord)}
}

// invalidTokens collects the unrecognized token names in s, first
// occurrence order, deduplicated.
func invalidTokens(s string) []string {
	var invalid []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		name := m[1]
		if recognized(name) || seen[name] {
			continue
		}
		seen[name] = true
		invalid = append(invalid, name)
	}
	return invalid
}

func recognized(name string) bool {
	if _, ok := simpleTokens[name]; ok {
		return true
	}
	_, ok := compositeTokens[name]
	return ok
}

// Expand substitutes every token with its value from rec. Absent simple
// tokens become empty strings; composite tokens render all-or-nothing.
func (t *Template) Expand(rec metadata.Record) string {
	return tokenPattern.ReplaceAllStringFunc(t.raw, func(m string) string {
		name := m[1 : len(m)-1]
		if field, ok := simpleTokens[name]; ok {
			v, _ := rec.Get(field)
			return v
		}
		if c, ok := compositeTokens[name]; ok {
			if !rec.Has(c.requires...) {
				return ""
			}
			return c.render(rec)
		}
		return ""
	})
}

// String returns the raw template text.
func (t *Template) String() string {
	return t.raw
}
