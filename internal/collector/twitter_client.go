package collector

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"github.com/qepting91/tweet-miner/internal/domain"
	"github.com/qepting91/tweet-miner/internal/ingest"
)

type TwitterClient struct {
	client  *twitter.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTwitterClient signs requests with the user's OAuth1 credentials.
func NewTwitterClient(creds ingest.Credentials, logger *slog.Logger) *TwitterClient {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	return newTwitterClient(config.Client(oauth1.NoContext, token), logger)
}

func newTwitterClient(httpClient *http.Client, logger *slog.Logger) *TwitterClient {
	// Search Rate Limit: 180 reqs / 15 min = 1 every 5s, small burst
	limiter := rate.NewLimiter(rate.Every(5*time.Second), 15)
	return &TwitterClient{client: twitter.NewClient(httpClient), limiter: limiter, logger: logger}
}

func (tc *TwitterClient) Search(ctx context.Context, req domain.PageRequest) iter.Seq2[domain.Post, error] {
	return paginate(ctx, tc.limiter, tc.logger, req, func(ctx context.Context, cursor string, count int) ([]domain.Post, string, error) {
		params := &twitter.SearchTweetParams{
			Query:           req.Query.String(),
			Lang:            req.Lang,
			ResultType:      req.ResultType,
			Count:           count,
			IncludeEntities: twitter.Bool(true),
			TweetMode:       "extended",
		}
		if req.Since.Set {
			params.SinceID = req.Since.ID
		}
		if cursor != "" {
			maxID, err := strconv.ParseInt(cursor, 10, 64)
			if err != nil {
				return nil, "", fmt.Errorf("bad max_id cursor %q: %w", cursor, err)
			}
			params.MaxID = maxID
		}

		search, resp, err := tc.client.Search.Tweets(params)
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return nil, "", throttledFor(resetTime(resp.Header.Get("x-rate-limit-reset")))
		}
		if err != nil {
			return nil, "", fmt.Errorf("twitter search error: %w", err)
		}
		if search == nil || len(search.Statuses) == 0 {
			return nil, "", nil
		}

		posts := make([]domain.Post, 0, len(search.Statuses))
		minID := search.Statuses[0].ID
		for _, t := range search.Statuses {
			posts = append(posts, tweetToPost(t))
			minID = min(minID, t.ID)
		}
		return posts, strconv.FormatInt(minID-1, 10), nil
	})
}

func tweetToPost(t twitter.Tweet) domain.Post {
	p := domain.Post{
		ID:           t.ID,
		Text:         t.FullText,
		RetweetCount: t.RetweetCount,
	}
	if p.Text == "" {
		p.Text = t.Text
	}
	if created, err := t.CreatedAtTime(); err == nil {
		p.CreatedAt = created.UTC()
	}
	if u := t.User; u != nil {
		p.Author = &domain.Author{
			ID:        strconv.FormatInt(u.ID, 10),
			Name:      u.Name,
			Location:  u.Location,
			Followers: u.FollowersCount,
			Friends:   u.FriendsCount,
		}
	}
	if pl := t.Place; pl != nil {
		p.Place = &domain.Place{Country: pl.Country, Name: pl.Name}
	}
	if c := t.Coordinates; c != nil {
		p.Coordinates = &domain.Coordinates{Lon: c.Coordinates[0], Lat: c.Coordinates[1]}
	}
	if e := t.Entities; e != nil {
		tags := make([]string, 0, len(e.Hashtags))
		for _, h := range e.Hashtags {
			tags = append(tags, h.Text)
		}
		p.Entities = &domain.Entities{Hashtags: tags}
	}
	return p
}

// resetTime parses an epoch-seconds rate limit header.
func resetTime(v string) time.Time {
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}
