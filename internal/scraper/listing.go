package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

const (
	listingCardSelector  = ".s-item"
	listingTitleSelector = ".s-item__title"
	listingPriceSelector = ".s-item__price"
	listingLinkSelector  = ".s-item__link"

	// Placeholder card the site injects ahead of real results.
	sponsoredCardTitle = "Shop on eBay"
)

// ExtractListings pulls listing items from a rendered search-results page in
// DOM order. A malformed card never fails the page: missing title or price
// fields fall back to the placeholder and a missing link leaves URL empty.
// Sponsored placeholder cards are dropped. limit > 0 caps the number of items
// returned.
func ExtractListings(doc *goquery.Document, limit int) []models.ListingItem {
	items := make([]models.ListingItem, 0)

	doc.Find(listingCardSelector).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if limit > 0 && len(items) >= limit {
			return false
		}

		item := models.ListingItem{
			Title: textOrMissing(card.Find(listingTitleSelector)),
			Price: textOrMissing(card.Find(listingPriceSelector)),
		}

		if href, ok := card.Find(listingLinkSelector).First().Attr("href"); ok {
			item.URL = strings.TrimSpace(href)
		}

		if item.Title == sponsoredCardTitle {
			return true
		}

		items = append(items, item)
		return true
	})

	return items
}

func textOrMissing(sel *goquery.Selection) string {
	text := strings.TrimSpace(sel.First().Text())
	if text == "" {
		return models.FieldMissing
	}
	return text
}
