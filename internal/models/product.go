package models

// FieldMissing is the placeholder for listing or detail fields that could not
// be extracted. Callers can rely on title, price and description always being
// present, defaulting to this value instead of being absent.
const FieldMissing = "-"

// ListingItem is the partial product record produced by the search-results
// pass, before the detail page has been visited. An empty URL means the card
// had no usable link (promotional tiles) and the item is skipped during the
// detail pass.
type ListingItem struct {
	Title string `json:"title"`
	Price string `json:"price"`
	URL   string `json:"url,omitempty"`
}

// EnhancedData is the AI-derived metadata attached to a product description.
type EnhancedData struct {
	Category  string `json:"category"`
	Condition string `json:"condition"`
	Summary   string `json:"summary"`
}

// PlaceholderEnhancement returns the soft-failure enhancement value: every
// field set to FieldMissing. Used whenever enhancement is skipped or fails.
func PlaceholderEnhancement() *EnhancedData {
	return &EnhancedData{
		Category:  FieldMissing,
		Condition: FieldMissing,
		Summary:   FieldMissing,
	}
}

// Product is a fully processed listing item. Error is populated when the
// detail fetch or enhancement failed for this specific item; the item is
// still returned with whatever fields were extracted before the failure.
type Product struct {
	Title        string        `json:"title"`
	Price        string        `json:"price"`
	URL          string        `json:"url,omitempty"`
	Description  string        `json:"description"`
	EnhancedData *EnhancedData `json:"enhancedData,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// FromListing seeds a Product from its listing stub with the description not
// yet filled in.
func FromListing(item ListingItem) Product {
	return Product{
		Title:       item.Title,
		Price:       item.Price,
		URL:         item.URL,
		Description: FieldMissing,
	}
}
