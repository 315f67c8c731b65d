package enhancer

import (
	"context"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

// Enhancer derives structured metadata (category, condition, summary) from a
// product's raw listing data. Implementations return an error on failure; the
// caller decides how to degrade.
type Enhancer interface {
	Enhance(ctx context.Context, title, price, description string) (*models.EnhancedData, error)
}

// Disabled is the Enhancer used when no API key is configured. Every call
// succeeds with the placeholder object, so the rest of the pipeline behaves
// identically with or without an AI backend.
type Disabled struct{}

func (Disabled) Enhance(context.Context, string, string, string) (*models.EnhancedData, error) {
	return models.PlaceholderEnhancement(), nil
}
