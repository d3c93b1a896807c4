package collector

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"

	"github.com/qepting91/tweet-miner/internal/domain"
)

var hashtagRegex = regexp.MustCompile(`#(\w+)`)

// RedditClient searches reddit through the authenticated API.
type RedditClient struct {
	client    *reddit.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	subreddit string
}

func NewRedditClient(id, secret, user, pass, userAgent, subreddit string, logger *slog.Logger) (*RedditClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &RedditClient{client: client, limiter: limiter, logger: logger, subreddit: subreddit}, nil
}

func (rc *RedditClient) Search(ctx context.Context, req domain.PageRequest) iter.Seq2[domain.Post, error] {
	return paginate(ctx, rc.limiter, rc.logger, req, func(ctx context.Context, cursor string, count int) ([]domain.Post, string, error) {
		opts := &reddit.ListPostSearchOptions{
			ListPostOptions: reddit.ListPostOptions{
				ListOptions: reddit.ListOptions{Limit: count, After: cursor},
			},
			Sort: "new",
		}
		posts, resp, err := rc.client.Subreddit.SearchPosts(ctx, req.Query.Text, rc.subreddit, opts)
		var rateErr *reddit.RateLimitError
		if errors.As(err, &rateErr) {
			return nil, "", throttledFor(rateErr.Rate.Reset)
		}
		if err != nil {
			return nil, "", fmt.Errorf("authenticated api error: %w", err)
		}

		var result []domain.Post
		for _, p := range posts {
			id, err := parseRedditID(p.ID)
			if err != nil {
				rc.logger.Warn("Skipping post with unparseable id", "id", p.ID, "err", err)
				continue
			}
			var created time.Time
			if p.Created != nil {
				created = p.Created.Time.UTC()
			}
			result = append(result, redditPost(id, p.Title, p.Body, p.Author, p.AuthorID, created))
		}
		next := ""
		if resp != nil {
			next = resp.After
		}
		return result, next, nil
	})
}

// parseRedditID decodes a base-36 post id, with or without its t3_ prefix.
func parseRedditID(id string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(id, "t3_"), 36, 64)
}

func redditPost(id int64, title, body, author, authorID string, created time.Time) domain.Post {
	text := strings.TrimSpace(title + "\n" + body)
	var tags []string
	for _, m := range hashtagRegex.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	return domain.Post{
		ID:        id,
		CreatedAt: created,
		Text:      text,
		Author:    &domain.Author{ID: authorID, Name: author},
		Entities:  &domain.Entities{Hashtags: tags},
	}
}
