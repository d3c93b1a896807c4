package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/qepting91/tweet-miner/internal/domain"
)

const publicBaseURL = "https://www.reddit.com"

// PublicClient searches reddit through the unauthenticated JSON listing.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	userAgent  string
	baseURL    string
	subreddit  string
}

type redditJSONResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				ID             string  `json:"id"`
				Title          string  `json:"title"`
				SelfText       string  `json:"selftext"`
				Author         string  `json:"author"`
				AuthorFullname string  `json:"author_fullname"`
				CreatedUTC     float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent, subreddit string, logger *slog.Logger) (*PublicClient, error) {
	return &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:    logger,
		userAgent: userAgent,
		baseURL:   publicBaseURL,
		subreddit: subreddit,
	}, nil
}

func (pc *PublicClient) Search(ctx context.Context, req domain.PageRequest) iter.Seq2[domain.Post, error] {
	return paginate(ctx, pc.limiter, pc.logger, req, func(ctx context.Context, cursor string, count int) ([]domain.Post, string, error) {
		return pc.fetchPage(ctx, req.Query.Text, cursor, count)
	})
}

func (pc *PublicClient) fetchPage(ctx context.Context, query, cursor string, limit int) ([]domain.Post, string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("restrict_sr", "on")
	if cursor != "" {
		q.Set("after", cursor)
	}
	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", pc.baseURL, url.PathEscape(pc.subreddit), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, "", throttledFor(retryAfter(resp.Header))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("reddit public access status: %d", resp.StatusCode)
	}

	var rResp redditJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return nil, "", fmt.Errorf("decode search listing: %w", err)
	}

	var posts []domain.Post
	for _, child := range rResp.Data.Children {
		d := child.Data
		id, err := parseRedditID(d.ID)
		if err != nil {
			pc.logger.Warn("Skipping post with unparseable id", "id", d.ID, "err", err)
			continue
		}
		created := time.Unix(int64(d.CreatedUTC), 0).UTC()
		posts = append(posts, redditPost(id, d.Title, d.SelfText, d.Author, d.AuthorFullname, created))
	}
	return posts, rResp.Data.After, nil
}

// retryAfter reads the reset hint reddit sends with a 429.
func retryAfter(h http.Header) time.Time {
	for _, key := range []string{"Retry-After", "X-Ratelimit-Reset"} {
		if secs, err := strconv.Atoi(h.Get(key)); err == nil && secs >= 0 {
			return time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
	return time.Time{}
}
