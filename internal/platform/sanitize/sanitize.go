// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sanitize cleans untrusted text before it is persisted.
//
// Plain fields lose all markup and have HTML entities escaped. Rich fields
// keep a small inline allow-list (p, b, strong, i, em, br) with no attributes.
// Both are NFC-normalised first so that visually equal input stores equally.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// richElements is the inline markup a reader may use in suggested corrections.
var richElements = []string{"p", "b", "strong", "i", "em", "br"}

// Sanitizer holds the compiled policies. It is safe for concurrent use.
type Sanitizer struct {
	plain *bluemonday.Policy
	rich  *bluemonday.Policy
}

// New compiles the plain and rich policies.
func New() *Sanitizer {
	rich := bluemonday.NewPolicy()
	rich.AllowElements(richElements...)

	return &Sanitizer{
		plain: bluemonday.StrictPolicy(),
		rich:  rich,
	}
}

// PlainText strips every tag and escapes entities.
func (sanitizer *Sanitizer) PlainText(value string) string {
	return strings.TrimSpace(sanitizer.plain.Sanitize(normalize(value)))
}

// RichText keeps only the inline allow-list.
func (sanitizer *Sanitizer) RichText(value string) string {
	return strings.TrimSpace(sanitizer.rich.Sanitize(normalize(value)))
}

// normalize applies NFC and drops NUL bytes, which bluemonday passes through.
func normalize(value string) string {
	return strings.ReplaceAll(norm.NFC.String(value), "\x00", "")
}
