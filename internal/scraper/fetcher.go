package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/prasdev/ebay-scraper-api/internal/browser"
)

// DetailDocument is a rendered product detail page. Frame holds the document
// of the embedded description iframe when one exists and is reachable; it is
// nil otherwise (absent or cross-origin-inaccessible frames are not errors).
type DetailDocument struct {
	Doc   *goquery.Document
	Frame *goquery.Document
}

// Fetcher renders pages for one scrape run. Implementations own whatever
// session state is needed and must release it in Close.
type Fetcher interface {
	SearchPage(ctx context.Context, keyword string, pageNum int) (*goquery.Document, error)
	DetailPage(ctx context.Context, pageURL string) (*DetailDocument, error)
	Close() error
}

// FetcherFactory creates a fresh Fetcher for a single scrape run. The
// pipeline acquires one at entry and releases it on every exit path.
type FetcherFactory func(ctx context.Context) (Fetcher, error)

const descriptionFrameSelector = "#desc_ifr"

// PlaywrightFetcher renders pages through a headless chromium session and
// hands the resulting HTML to goquery. One page handle is reused for both
// search and detail navigation, mirroring a single polite visitor.
type PlaywrightFetcher struct {
	browser       *browser.Browser
	page          playwright.Page
	searchBaseURL string
	navTimeout    time.Duration
	logger        *slog.Logger
}

func NewPlaywrightFetcher(opts *browser.Options, searchBaseURL string, navTimeout time.Duration) (*PlaywrightFetcher, error) {
	b, err := browser.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		b.Close()
		return nil, err
	}

	return &PlaywrightFetcher{
		browser:       b,
		page:          page,
		searchBaseURL: searchBaseURL,
		navTimeout:    navTimeout,
		logger:        slog.Default().With("component", "fetcher"),
	}, nil
}

func (f *PlaywrightFetcher) SearchPage(ctx context.Context, keyword string, pageNum int) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchURL := SearchURL(f.searchBaseURL, keyword, pageNum)
	f.logger.Info("loading search page", "keyword", keyword, "page", pageNum)

	if err := f.browser.Navigate(f.page, searchURL, f.navTimeout); err != nil {
		return nil, err
	}

	return f.document()
}

func (f *PlaywrightFetcher) DetailPage(ctx context.Context, pageURL string) (*DetailDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.logger.Info("loading detail page", "url", pageURL)

	if err := f.browser.Navigate(f.page, pageURL, f.navTimeout); err != nil {
		return nil, err
	}

	doc, err := f.document()
	if err != nil {
		return nil, err
	}

	return &DetailDocument{
		Doc:   doc,
		Frame: f.frameDocument(),
	}, nil
}

func (f *PlaywrightFetcher) Close() error {
	if f.page != nil {
		if err := f.page.Close(); err != nil {
			f.logger.Warn("failed to close page", "error", err)
		}
	}
	return f.browser.Close()
}

func (f *PlaywrightFetcher) document() (*goquery.Document, error) {
	html, err := f.page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page content: %w", err)
	}

	return doc, nil
}

// frameDocument reads the description iframe's own document. Any failure
// (frame missing, detached, cross-origin) yields nil so extraction can fall
// back to the placeholder instead of aborting the item.
func (f *PlaywrightFetcher) frameDocument() *goquery.Document {
	el, err := f.page.QuerySelector(descriptionFrameSelector)
	if err != nil || el == nil {
		return nil
	}

	frame, err := el.ContentFrame()
	if err != nil || frame == nil {
		return nil
	}

	html, err := frame.Content()
	if err != nil {
		f.logger.Warn("description frame unreadable", "error", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	return doc
}

// SearchURL builds the search-results URL for a keyword and 1-based page
// index, percent-encoding the keyword.
func SearchURL(baseURL, keyword string, pageNum int) string {
	return fmt.Sprintf("%s?_from=R40&_nkw=%s&_sacat=0&rt=nc&_pgn=%d",
		baseURL, url.QueryEscape(keyword), pageNum)
}
