// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/inkwell/internal/platform/sanitize"
)

/*
TestPlainText verifies that plain fields lose markup and are entity-escaped.
*/
func TestPlainText(t *testing.T) {
	sanitizer := sanitize.New()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{"script_removed", "<script>alert(1)</script>Hi", []string{"Hi"}, []string{"<script", "alert"}},
		{"tags_stripped", "<b>bold</b> text", []string{"bold text"}, []string{"<b>"}},
		{"entities_escaped", "Tom & Jerry", []string{"Tom &amp; Jerry"}, nil},
		{"surrounding_space", "  Kai  ", []string{"Kai"}, []string{" Kai", "Kai "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.PlainText(tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

/*
TestRichText verifies the inline allow-list.
*/
func TestRichText(t *testing.T) {
	sanitizer := sanitize.New()

	got := sanitizer.RichText(`<p>Hello <b onclick="steal()">world</b><br><em>!</em><a href="https://x">link</a><img src=x onerror=alert(1)></p>`)

	assert.Contains(t, got, "<p>")
	assert.Contains(t, got, "<b>world</b>")
	assert.Contains(t, got, "<em>!</em>")
	assert.Contains(t, got, "link")
	assert.NotContains(t, got, "onclick")
	assert.NotContains(t, got, "<a")
	assert.NotContains(t, got, "<img")
}

/*
TestNormalization verifies that composed and decomposed input store identically.
*/
func TestNormalization(t *testing.T) {
	sanitizer := sanitize.New()

	composed := "Caf\u00e9"
	decomposed := "Cafe\u0301"

	assert.Equal(t, sanitizer.PlainText(composed), sanitizer.PlainText(decomposed))
	assert.Equal(t, sanitizer.RichText(composed), sanitizer.RichText(decomposed))
}
