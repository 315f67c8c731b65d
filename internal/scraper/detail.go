package scraper

import (
	"strings"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

// descriptionStrategy is one way of locating the description text on a
// detail page. Strategies are tried in order until one yields non-empty text,
// keeping the fallback policy data-driven rather than a nest of conditionals.
type descriptionStrategy struct {
	name    string
	extract func(d *DetailDocument) string
}

var descriptionStrategies = []descriptionStrategy{
	{name: "ds_div", extract: fromSelector("#ds_div")},
	{name: "item_description", extract: fromSelector(".item-description")},
	{name: "d_item_description", extract: fromSelector(".d-item-description")},
	{name: "evo_section", extract: fromSelector(`[data-testid="ux-layout-section-evo:item-description"]`)},
	{name: "description_frame", extract: fromFrameBody},
}

// ExtractDescription returns the first non-empty description found on the
// detail page, or the placeholder when every strategy misses. It never fails.
func ExtractDescription(d *DetailDocument) string {
	if d == nil {
		return models.FieldMissing
	}

	for _, strategy := range descriptionStrategies {
		if text := strategy.extract(d); text != "" {
			return text
		}
	}

	return models.FieldMissing
}

func fromSelector(selector string) func(d *DetailDocument) string {
	return func(d *DetailDocument) string {
		if d.Doc == nil {
			return ""
		}
		return strings.TrimSpace(d.Doc.Find(selector).First().Text())
	}
}

// fromFrameBody reads the embedded description frame's own body text. Sellers
// frequently ship the description as a separate framed document.
func fromFrameBody(d *DetailDocument) string {
	if d.Frame == nil {
		return ""
	}
	return strings.TrimSpace(d.Frame.Find("body").First().Text())
}
