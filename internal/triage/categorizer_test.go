package triage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestRandomCategorizer_UnreadableImage(t *testing.T) {
	c := NewRandomCategorizer()

	got := c.Categorize(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Equal(t, domain.CategoryUncategorized, got)
}

func TestRandomCategorizer_ReturnsKnownLabel(t *testing.T) {
	c := NewRandomCategorizer()

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o644))

	for i := 0; i < 20; i++ {
		got := c.Categorize(context.Background(), path)
		assert.Contains(t, imageCategories, got)
	}
}
