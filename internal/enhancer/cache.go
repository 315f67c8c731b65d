package enhancer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

// Cached memoizes enhancement results for identical listings within the
// server's lifetime, so re-scraping the same products does not re-pay for AI
// calls. Errors are never cached.
type Cached struct {
	inner Enhancer
	cache *lru.Cache[string, models.EnhancedData]
}

func NewCached(inner Enhancer, size int) (*Cached, error) {
	cache, err := lru.New[string, models.EnhancedData](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create enhancement cache: %w", err)
	}

	return &Cached{
		inner: inner,
		cache: cache,
	}, nil
}

func (c *Cached) Enhance(ctx context.Context, title, price, description string) (*models.EnhancedData, error) {
	key := cacheKey(title, price, description)

	if cached, ok := c.cache.Get(key); ok {
		result := cached
		return &result, nil
	}

	enhanced, err := c.inner.Enhance(ctx, title, price, description)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, *enhanced)
	return enhanced, nil
}

func cacheKey(title, price, description string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + price + "\x00" + description))
	return hex.EncodeToString(sum[:])
}
