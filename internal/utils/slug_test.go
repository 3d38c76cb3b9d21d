// internal/utils/slug_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Posters", "posters"},
		{"mixed case", "Fine Art Prints", "fine-art-prints"},
		{"diacritics stripped", "Été indien", "ete-indien"},
		{"accented product name", "Affiche Montagne Enneigée", "affiche-montagne-enneigee"},
		{"punctuation collapses", "A3 — Matte / Premium", "a3-matte-premium"},
		{"ampersand dropped", "Black & White", "black-white"},
		{"leading and trailing junk", "  --Hello World--  ", "hello-world"},
		{"digits kept", "Poster 50x70", "poster-50x70"},
		{"consecutive separators", "one...two___three", "one-two-three"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"punctuation only", "!!! ???", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateSlugIsStable(t *testing.T) {
	// Slugging a slug must be a no-op, otherwise regenerating on every
	// rename would drift.
	first := GenerateSlug("Crème Brûlée & Co.")
	second := GenerateSlug(first)
	assert.Equal(t, first, second)
}
