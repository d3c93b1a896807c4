package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/qepting91/tweet-miner/internal/ingest"
	"github.com/qepting91/tweet-miner/internal/storage"
)

// MaxPageSize is the largest page the search endpoint serves.
const MaxPageSize = 100

var ErrMissingCredentials = errors.New("missing credentials")

var slugRegex = regexp.MustCompile(`[^A-Za-z0-9]+`)

type Config struct {
	Mode string

	AuthFile string
	Twitter  ingest.Credentials

	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
	RedditUserAgent    string
	Subreddit          string

	Query      string
	QueryFile  string
	QueryName  string
	PlaceID    string
	PlaceLabel string

	TargetCount int
	PageSize    int
	Lang        string
	ResultType  string

	OutputDir    string
	OutputFormat storage.Format

	Port     string
	LogLevel slog.Level
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		Mode:               getEnv("COLLECTOR_MODE", "twitter"),
		AuthFile:           getEnv("AUTH_FILE", "auth.k"),
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUsername:     os.Getenv("REDDIT_USERNAME"),
		RedditPassword:     os.Getenv("REDDIT_PASSWORD"),
		RedditUserAgent:    os.Getenv("REDDIT_USER_AGENT"),
		Subreddit:          getEnv("REDDIT_SUBREDDIT", "all"),
		Query:              os.Getenv("QUERY"),
		QueryFile:          getEnv("QUERY_FILE", "input/queries.csv"),
		QueryName:          os.Getenv("QUERY_NAME"),
		PlaceID:            os.Getenv("PLACE_ID"),
		PlaceLabel:         getEnv("PLACE_LABEL", "all"),
		Lang:               getEnv("SEARCH_LANG", "en"),
		ResultType:         getEnv("RESULT_TYPE", "mixed"),
		OutputDir:          getEnv("OUTPUT_DIR", "results"),
		Port:               getEnv("PORT", "8080"),
		Twitter: ingest.Credentials{
			ConsumerKey:    os.Getenv("TWITTER_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("TWITTER_CONSUMER_SECRET"),
			AccessToken:    os.Getenv("TWITTER_ACCESS_TOKEN"),
			AccessSecret:   os.Getenv("TWITTER_ACCESS_SECRET"),
		},
	}

	var err error
	if cfg.TargetCount, err = getEnvInt("TARGET_COUNT", 5000); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getEnvInt("PAGE_SIZE", MaxPageSize); err != nil {
		return nil, err
	}
	if cfg.OutputFormat, err = storage.ParseFormat(getEnv("OUTPUT_FORMAT", "csv")); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// Validate checks the collection settings and clamps the page size.
func (c *Config) Validate() error {
	if c.TargetCount <= 0 {
		return fmt.Errorf("target count must be positive, got %d", c.TargetCount)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	if c.Query == "" && c.QueryName == "" {
		return errors.New("set QUERY or QUERY_NAME")
	}
	return nil
}

// SetFormat parses and sets the output format.
func (c *Config) SetFormat(s string) error {
	f, err := storage.ParseFormat(s)
	if err != nil {
		return err
	}
	c.OutputFormat = f
	return nil
}

// ResolveQuery returns the query name and text, reading the preset file when
// a QueryName is set.
func (c *Config) ResolveQuery() (name, text string, err error) {
	if c.QueryName == "" {
		return Slug(c.Query), c.Query, nil
	}
	presets, err := ingest.LoadPresets(c.QueryFile)
	if err != nil {
		return "", "", fmt.Errorf("load query presets: %w", err)
	}
	p, ok := ingest.FindPreset(presets, c.QueryName)
	if !ok {
		return "", "", fmt.Errorf("query preset %q not found in %s", c.QueryName, c.QueryFile)
	}
	return p.Name, p.Query, nil
}

// TwitterCredentials prefers the environment and falls back to AuthFile.
func (c *Config) TwitterCredentials() (ingest.Credentials, error) {
	t := c.Twitter
	if t.ConsumerKey != "" && t.ConsumerSecret != "" && t.AccessToken != "" && t.AccessSecret != "" {
		return t, nil
	}
	creds, err := ingest.LoadCredentials(c.AuthFile)
	if err != nil {
		return ingest.Credentials{}, fmt.Errorf("%w: %w", ErrMissingCredentials, err)
	}
	return creds, nil
}

// OutputPath is <dir>/<query-name>_<place-label>.<ext>.
func (c *Config) OutputPath(queryName string) string {
	return filepath.Join(c.OutputDir, fmt.Sprintf("%s_%s%s", queryName, Slug(c.PlaceLabel), c.OutputFormat.Ext()))
}

// Slug reduces s to a file-name friendly token.
func Slug(s string) string {
	s = strings.Trim(slugRegex.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "query"
	}
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "-")
	}
	return strings.ToLower(s)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
