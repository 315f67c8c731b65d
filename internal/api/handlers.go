package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasdev/ebay-scraper-api/internal/models"
	"github.com/prasdev/ebay-scraper-api/internal/snapshot"
)

// Scraper runs one scrape for a keyword across a number of search pages.
type Scraper interface {
	Scrape(ctx context.Context, keyword string, pages int) ([]models.Product, error)
}

type Handlers struct {
	scraper  Scraper
	store    *snapshot.Store
	maxPages int
	logger   *slog.Logger
}

func NewHandlers(scraper Scraper, store *snapshot.Store, maxPages int, logger *slog.Logger) *Handlers {
	return &Handlers{
		scraper:  scraper,
		store:    store,
		maxPages: maxPages,
		logger:   logger.With("component", "api"),
	}
}

// ScrapeQuery echoes the parsed request parameters back to the caller.
type ScrapeQuery struct {
	Keyword string `json:"keyword"`
	Pages   int    `json:"pages"`
}

// ScrapeResponse is the success envelope for GET /api/scrape.
type ScrapeResponse struct {
	Success  bool             `json:"success"`
	RunID    string           `json:"runId"`
	Query    ScrapeQuery      `json:"query"`
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
}

// Scrape handles GET /api/scrape?keyword=<string>&pages=<n>. The call is
// synchronous: the response carries the full product list of the run.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		h.respondError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	pages := 1
	if raw := r.URL.Query().Get("pages"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, "pages must be a positive integer")
			return
		}
		pages = parsed
	}
	if h.maxPages > 0 && pages > h.maxPages {
		pages = h.maxPages
	}

	runID := uuid.NewString()
	logger := h.logger.With("runId", runID)
	logger.Info("scrape requested", "keyword", keyword, "pages", pages)

	products, err := h.scraper.Scrape(r.Context(), keyword, pages)
	if err != nil {
		logger.Error("scrape failed", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if products == nil {
		products = []models.Product{}
	}

	// The snapshot is best effort; a persist failure never fails the request.
	snap := &snapshot.Snapshot{
		RunID:     runID,
		Keyword:   keyword,
		Pages:     pages,
		ScrapedAt: time.Now().UTC(),
		Count:     len(products),
		Products:  products,
	}
	if err := h.store.Write(snap); err != nil {
		logger.Warn("failed to persist snapshot", "error", err)
	}

	h.respondJSON(w, http.StatusOK, ScrapeResponse{
		Success:  true,
		RunID:    runID,
		Query:    ScrapeQuery{Keyword: keyword, Pages: pages},
		Count:    len(products),
		Products: products,
	})
}

// Download handles GET /download, serving the latest snapshot file as an
// attachment.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	if !h.store.Exists() {
		h.respondError(w, http.StatusNotFound, "no snapshot available, run /api/scrape first")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="products.json"`)
	http.ServeFile(w, r, h.store.Path())
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
