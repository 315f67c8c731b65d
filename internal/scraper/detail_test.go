package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

func TestExtractDescriptionSelectorFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "primary container",
			html: `<html><body><div id="ds_div"> A sturdy pair of boots. </div></body></html>`,
			want: "A sturdy pair of boots.",
		},
		{
			name: "alternate class",
			html: `<html><body><div class="item-description">Alternate description</div></body></html>`,
			want: "Alternate description",
		},
		{
			name: "second alternate class",
			html: `<html><body><div class="d-item-description">Another layout</div></body></html>`,
			want: "Another layout",
		},
		{
			name: "data-testid section",
			html: `<html><body><div data-testid="ux-layout-section-evo:item-description">Evo layout text</div></body></html>`,
			want: "Evo layout text",
		},
		{
			name: "primary wins over alternates",
			html: `<html><body><div id="ds_div">primary</div><div class="item-description">secondary</div></body></html>`,
			want: "primary",
		},
		{
			name: "empty primary falls through",
			html: `<html><body><div id="ds_div">  </div><div class="item-description">fallback text</div></body></html>`,
			want: "fallback text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := &DetailDocument{Doc: docFromHTML(t, tt.html)}
			assert.Equal(t, tt.want, ExtractDescription(detail))
		})
	}
}

func TestExtractDescriptionReadsEmbeddedFrame(t *testing.T) {
	detail := &DetailDocument{
		Doc:   docFromHTML(t, `<html><body><iframe id="desc_ifr"></iframe></body></html>`),
		Frame: docFromHTML(t, `<html><body> Framed seller description </body></html>`),
	}

	assert.Equal(t, "Framed seller description", ExtractDescription(detail))
}

func TestExtractDescriptionOuterDocumentWinsOverFrame(t *testing.T) {
	detail := &DetailDocument{
		Doc:   docFromHTML(t, `<html><body><div id="ds_div">outer text</div></body></html>`),
		Frame: docFromHTML(t, `<html><body>frame text</body></html>`),
	}

	assert.Equal(t, "outer text", ExtractDescription(detail))
}

func TestExtractDescriptionNoSelectorsMatch(t *testing.T) {
	detail := &DetailDocument{
		Doc: docFromHTML(t, `<html><body><div class="unrelated">nothing useful</div></body></html>`),
	}

	assert.Equal(t, models.FieldMissing, ExtractDescription(detail))
}

func TestExtractDescriptionMissingFrameIsNotAnError(t *testing.T) {
	detail := &DetailDocument{
		Doc:   docFromHTML(t, `<html><body></body></html>`),
		Frame: nil,
	}

	assert.Equal(t, models.FieldMissing, ExtractDescription(detail))
}

func TestExtractDescriptionNilDocument(t *testing.T) {
	assert.Equal(t, models.FieldMissing, ExtractDescription(nil))
	assert.Equal(t, models.FieldMissing, ExtractDescription(&DetailDocument{}))
}
