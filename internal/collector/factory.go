package collector

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/qepting91/tweet-miner/internal/config"
	"github.com/qepting91/tweet-miner/internal/domain"
)

var ErrUnknownMode = errors.New("unknown COLLECTOR_MODE")

// mockCorpusSize is how many posts the offline backend serves.
const mockCorpusSize = 1200

// NewSearcher selects the correct implementation based on the mode
func NewSearcher(cfg *config.Config, logger *slog.Logger) (domain.Searcher, error) {
	switch cfg.Mode {
	case "twitter":
		creds, err := cfg.TwitterCredentials()
		if err != nil {
			return nil, err
		}
		return NewTwitterClient(creds, logger), nil
	case "reddit":
		if cfg.RedditUserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for reddit mode")
		}
		return NewRedditClient(
			cfg.RedditClientID,
			cfg.RedditClientSecret,
			cfg.RedditUsername,
			cfg.RedditPassword,
			cfg.RedditUserAgent,
			cfg.Subreddit,
			logger,
		)
	case "public":
		if cfg.RedditUserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(cfg.RedditUserAgent, cfg.Subreddit, logger)
	case "mock":
		return NewMockClient(mockCorpusSize, 1, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s (use 'twitter', 'reddit', 'public', or 'mock')", ErrUnknownMode, cfg.Mode)
	}
}
