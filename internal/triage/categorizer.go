package triage

import (
	"context"
	"math/rand"
	"os"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Categorizer assigns a category label to a stored image. Implementations
// must be total: any processing failure degrades to "Uncategorized"
// instead of returning an error, so callers never special-case the
// classifier.
type Categorizer interface {
	Categorize(ctx context.Context, imagePath string) string
}

// imageCategories are the labels the stub picks from; a real model
// implementation is expected to produce the same label set.
var imageCategories = []string{
	"Pothole", "Garbage", "Streetlight", "Road Damage", "Water", "Drainage",
}

// RandomCategorizer is the placeholder classification strategy: it checks
// the image is readable and then picks a category uniformly at random,
// independent of content. Swap in a model-backed Categorizer to replace it.
type RandomCategorizer struct{}

// NewRandomCategorizer returns the stub strategy.
func NewRandomCategorizer() *RandomCategorizer {
	return &RandomCategorizer{}
}

// Categorize implements Categorizer.
func (c *RandomCategorizer) Categorize(_ context.Context, imagePath string) string {
	if _, err := os.Stat(imagePath); err != nil {
		return domain.CategoryUncategorized
	}
	return imageCategories[rand.Intn(len(imageCategories))]
}
