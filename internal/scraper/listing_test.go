package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const searchPageFixture = `
<html><body>
<ul>
  <li class="s-item">
    <a class="s-item__link" href="https://example.com/itm/0"><span class="s-item__title">Shop on eBay</span></a>
    <span class="s-item__price">$20.00</span>
  </li>
  <li class="s-item">
    <a class="s-item__link" href="https://example.com/itm/1"><span class="s-item__title">Nike Air Zoom</span></a>
    <span class="s-item__price">$89.99</span>
  </li>
  <li class="s-item">
    <a class="s-item__link" href="https://example.com/itm/2"><span class="s-item__title">Nike Running Shorts</span></a>
    <span class="s-item__price">$15.50</span>
  </li>
</ul>
</body></html>`

func TestExtractListingsFiltersSponsoredCard(t *testing.T) {
	doc := docFromHTML(t, searchPageFixture)

	items := ExtractListings(doc, 0)

	require.Len(t, items, 2)
	assert.Equal(t, "Nike Air Zoom", items[0].Title)
	assert.Equal(t, "$89.99", items[0].Price)
	assert.Equal(t, "https://example.com/itm/1", items[0].URL)
	assert.Equal(t, "Nike Running Shorts", items[1].Title)
}

func TestExtractListingsPreservesDOMOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	titles := []string{"first", "second", "third", "fourth"}
	for _, title := range titles {
		b.WriteString(`<div class="s-item"><a class="s-item__link" href="https://example.com/` + title + `"><span class="s-item__title">` + title + `</span></a><span class="s-item__price">$1</span></div>`)
	}
	b.WriteString("</body></html>")

	items := ExtractListings(docFromHTML(t, b.String()), 0)

	require.Len(t, items, len(titles))
	for i, title := range titles {
		assert.Equal(t, title, items[i].Title)
	}
}

func TestExtractListingsMalformedCardYieldsPlaceholders(t *testing.T) {
	html := `
<html><body>
  <div class="s-item">
    <span class="s-item__title">No price or link here</span>
  </div>
  <div class="s-item">
    <a class="s-item__link" href="https://example.com/itm/9"></a>
    <span class="s-item__price">$5.00</span>
  </div>
</body></html>`

	items := ExtractListings(docFromHTML(t, html), 0)

	require.Len(t, items, 2)
	assert.Equal(t, "No price or link here", items[0].Title)
	assert.Equal(t, models.FieldMissing, items[0].Price)
	assert.Empty(t, items[0].URL)

	assert.Equal(t, models.FieldMissing, items[1].Title)
	assert.Equal(t, "$5.00", items[1].Price)
	assert.Equal(t, "https://example.com/itm/9", items[1].URL)
}

func TestExtractListingsAppliesLimit(t *testing.T) {
	doc := docFromHTML(t, searchPageFixture)

	items := ExtractListings(doc, 1)

	require.Len(t, items, 1)
	assert.Equal(t, "Nike Air Zoom", items[0].Title)
}

func TestExtractListingsEmptyPage(t *testing.T) {
	items := ExtractListings(docFromHTML(t, "<html><body><p>no results</p></body></html>"), 0)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}
