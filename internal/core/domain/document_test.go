package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunkID(t *testing.T) {
	t.Run("deterministic for identical input", func(t *testing.T) {
		a := NewChunkID("Nigeria Tax Bill.pdf", "Section 12: exemption threshold")
		b := NewChunkID("Nigeria Tax Bill.pdf", "Section 12: exemption threshold")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content produces distinct ids", func(t *testing.T) {
		a := NewChunkID("bill.pdf", "chapter one")
		b := NewChunkID("bill.pdf", "chapter two")
		assert.NotEqual(t, a, b)
	})

	t.Run("distinct sources produce distinct ids", func(t *testing.T) {
		a := NewChunkID("bill-a.pdf", "same content")
		b := NewChunkID("bill-b.pdf", "same content")
		assert.NotEqual(t, a, b)
	})

	t.Run("spaces in source are normalised", func(t *testing.T) {
		id := NewChunkID("Nigeria Tax Bill.pdf", "text")
		assert.True(t, strings.HasPrefix(id, "Nigeria_Tax_Bill.pdf_"))
	})

	t.Run("empty source falls back to unknown", func(t *testing.T) {
		id := NewChunkID("", "text")
		assert.True(t, strings.HasPrefix(id, "unknown_"))
	})
}
