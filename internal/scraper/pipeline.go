package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prasdev/ebay-scraper-api/internal/enhancer"
	"github.com/prasdev/ebay-scraper-api/internal/models"
	"github.com/prasdev/ebay-scraper-api/internal/ratelimit"
)

var (
	ErrEmptyKeyword     = errors.New("keyword must not be empty")
	ErrInvalidPageCount = errors.New("page count must be at least 1")
)

// Pipeline drives a full scrape run: search pages in order, listing
// extraction, per-item detail fetch, AI enhancement, aggregation. Runs are
// strictly sequential and throttled; one product failing never aborts the
// batch, and a search page that fails to load is skipped while the remaining
// pages still run.
type Pipeline struct {
	newFetcher      FetcherFactory
	enhancer        enhancer.Enhancer
	itemLimiter     ratelimit.Limiter
	pageLimiter     ratelimit.Limiter
	maxItemsPerPage int
	metrics         *Metrics
	logger          *slog.Logger
}

type PipelineOptions struct {
	// NewFetcher acquires the browser session for one run. Required.
	NewFetcher FetcherFactory

	// Enhancer annotates descriptions. Defaults to enhancer.Disabled.
	Enhancer enhancer.Enhancer

	// ItemLimiter and PageLimiter space out detail and search navigations.
	// Both default to jittered delays.
	ItemLimiter ratelimit.Limiter
	PageLimiter ratelimit.Limiter

	// MaxItemsPerPage caps how many listing cards are processed per search
	// page. Zero means no cap.
	MaxItemsPerPage int

	Metrics *Metrics
	Logger  *slog.Logger
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	enh := opts.Enhancer
	if enh == nil {
		enh = enhancer.Disabled{}
	}

	itemLimiter := opts.ItemLimiter
	if itemLimiter == nil {
		itemLimiter = ratelimit.NewJitterLimiter(1*time.Second, 3*time.Second)
	}

	pageLimiter := opts.PageLimiter
	if pageLimiter == nil {
		pageLimiter = ratelimit.NewJitterLimiter(3*time.Second, 5*time.Second)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		newFetcher:      opts.NewFetcher,
		enhancer:        enh,
		itemLimiter:     itemLimiter,
		pageLimiter:     pageLimiter,
		maxItemsPerPage: opts.MaxItemsPerPage,
		metrics:         opts.Metrics,
		logger:          logger.With("component", "pipeline"),
	}
}

// Scrape runs the full pipeline for a keyword across pages search-results
// pages and returns products in discovery order. The browser session is
// acquired at entry and released on every exit path. Cancellation is honored
// between items and between pages; the products gathered so far are returned
// alongside the context error.
func (p *Pipeline) Scrape(ctx context.Context, keyword string, pages int) ([]models.Product, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}
	if pages < 1 {
		return nil, ErrInvalidPageCount
	}

	fetcher, err := p.newFetcher(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start scrape session: %w", err)
	}
	defer func() {
		if cerr := fetcher.Close(); cerr != nil {
			p.logger.Warn("failed to release scrape session", "error", cerr)
		}
	}()

	start := time.Now()
	products := make([]models.Product, 0)

	for pageNum := 1; pageNum <= pages; pageNum++ {
		if err := p.pageLimiter.Wait(ctx); err != nil {
			return products, err
		}

		doc, err := fetcher.SearchPage(ctx, keyword, pageNum)
		if err != nil {
			if ctx.Err() != nil {
				return products, ctx.Err()
			}
			// A failed search page costs only its own results.
			p.metrics.IncPage("failed")
			p.logger.Warn("search page failed, skipping",
				"keyword", keyword, "page", pageNum, "error", err)
			continue
		}
		p.metrics.IncPage("ok")

		items := ExtractListings(doc, p.maxItemsPerPage)
		p.logger.Info("extracted listings",
			"keyword", keyword, "page", pageNum, "count", len(items))

		for _, item := range items {
			if item.URL == "" {
				continue
			}

			if err := p.itemLimiter.Wait(ctx); err != nil {
				return products, err
			}

			products = append(products, p.processItem(ctx, fetcher, item))
		}
	}

	p.metrics.ObserveRun(time.Since(start))
	p.logger.Info("scrape completed",
		"keyword", keyword, "pages", pages, "products", len(products))

	return products, nil
}

// processItem visits one product's detail page and enhances its description.
// Failures are recorded on the item itself; the partial product is always
// returned.
func (p *Pipeline) processItem(ctx context.Context, fetcher Fetcher, item models.ListingItem) models.Product {
	product := models.FromListing(item)

	detail, err := fetcher.DetailPage(ctx, item.URL)
	if err != nil {
		p.metrics.IncItem("failed")
		p.logger.Warn("detail fetch failed", "url", item.URL, "error", err)
		product.Error = err.Error()
		return product
	}

	product.Description = ExtractDescription(detail)
	product.EnhancedData = p.enhance(ctx, product)
	p.metrics.IncItem("ok")

	return product
}

// enhance soft-fails: any enhancement error degrades to the placeholder
// object and the product keeps its extracted description.
func (p *Pipeline) enhance(ctx context.Context, product models.Product) *models.EnhancedData {
	if product.Title == models.FieldMissing || product.Description == models.FieldMissing {
		p.metrics.IncEnhancement("skipped")
		return models.PlaceholderEnhancement()
	}

	enhanced, err := p.enhancer.Enhance(ctx, product.Title, product.Price, product.Description)
	if err != nil {
		p.metrics.IncEnhancement("failed")
		p.logger.Warn("enhancement failed", "title", product.Title, "error", err)
		return models.PlaceholderEnhancement()
	}

	p.metrics.IncEnhancement("ok")
	return enhanced
}
