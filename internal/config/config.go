package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Browser  BrowserConfig
	Enhancer EnhancerConfig
	Snapshot SnapshotConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	SearchBaseURL     string
	ItemDelayMin      time.Duration
	ItemDelayMax      time.Duration
	PageDelayMin      time.Duration
	PageDelayMax      time.Duration
	NavigationTimeout time.Duration
	MaxItemsPerPage   int
	MaxPages          int
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
}

type EnhancerConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	CacheSize int
}

type SnapshotConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 10*time.Minute),
			RequestTimeout:  getDurationOrDefault("SERVER_REQUEST_TIMEOUT", 10*time.Minute),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			SearchBaseURL:     getEnvOrDefault("SCRAPER_SEARCH_BASE_URL", "https://www.ebay.com/sch/i.html"),
			ItemDelayMin:      getDurationOrDefault("SCRAPER_ITEM_DELAY_MIN", 1*time.Second),
			ItemDelayMax:      getDurationOrDefault("SCRAPER_ITEM_DELAY_MAX", 3*time.Second),
			PageDelayMin:      getDurationOrDefault("SCRAPER_PAGE_DELAY_MIN", 3*time.Second),
			PageDelayMax:      getDurationOrDefault("SCRAPER_PAGE_DELAY_MAX", 5*time.Second),
			NavigationTimeout: getDurationOrDefault("SCRAPER_NAVIGATION_TIMEOUT", 60*time.Second),
			MaxItemsPerPage:   getIntOrDefault("SCRAPER_MAX_ITEMS_PER_PAGE", 0),
			MaxPages:          getIntOrDefault("SCRAPER_MAX_PAGES", 10),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 45*time.Second),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1280),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 800),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "en-US"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "America/New_York"),
		},
		Enhancer: EnhancerConfig{
			APIKey:    getEnvOrDefault("OPENAI_API_KEY", ""),
			BaseURL:   getEnvOrDefault("ENHANCER_BASE_URL", "https://api.openai.com/v1/chat/completions"),
			Model:     getEnvOrDefault("ENHANCER_MODEL", "gpt-4o-mini"),
			Timeout:   getDurationOrDefault("ENHANCER_TIMEOUT", 30*time.Second),
			CacheSize: getIntOrDefault("ENHANCER_CACHE_SIZE", 256),
		},
		Snapshot: SnapshotConfig{
			Path: getEnvOrDefault("SNAPSHOT_PATH", "output.json"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.ItemDelayMin > c.Scraper.ItemDelayMax {
		return fmt.Errorf("SCRAPER_ITEM_DELAY_MIN cannot be greater than SCRAPER_ITEM_DELAY_MAX")
	}

	if c.Scraper.PageDelayMin > c.Scraper.PageDelayMax {
		return fmt.Errorf("SCRAPER_PAGE_DELAY_MIN cannot be greater than SCRAPER_PAGE_DELAY_MAX")
	}

	if c.Scraper.MaxPages < 1 {
		return fmt.Errorf("SCRAPER_MAX_PAGES must be at least 1")
	}

	if c.Enhancer.CacheSize < 0 {
		return fmt.Errorf("ENHANCER_CACHE_SIZE cannot be negative")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
