package collector

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/qepting91/tweet-miner/internal/domain"
)

var mockPhrases = []string{
	"Really good news about the %s rollout today",
	"Not sure the %s trial results are true",
	"Terrible queue at the clinic for %s, so slow",
	"Got my %s dose, feeling fine and grateful",
	"Is %s effective? Still worried about side effects",
	"%s update: new batch available next week",
}

var mockPlaces = []domain.Place{
	{Country: "China", Name: "Beijing"},
	{Country: "Singapore", Name: "Singapore"},
	{Country: "Indonesia", Name: "Jakarta"},
}

// MockClient implements domain.Searcher over a fixed, generated corpus.
type MockClient struct {
	corpus  []domain.Post
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewMockClient generates size posts with ids 1..size from seed.
func NewMockClient(size int, seed int64, logger *slog.Logger) *MockClient {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	corpus := make([]domain.Post, 0, size)
	for i := 1; i <= size; i++ {
		p := domain.Post{
			ID:           int64(i),
			CreatedAt:    start.Add(time.Duration(i) * time.Minute),
			Text:         fmt.Sprintf(mockPhrases[rng.Intn(len(mockPhrases))], "sinovac"),
			RetweetCount: rng.Intn(50),
			Author: &domain.Author{
				ID:        strconv.Itoa(1000 + rng.Intn(200)),
				Name:      fmt.Sprintf("simulated_user_%d", rng.Intn(200)),
				Location:  "Earth",
				Followers: rng.Intn(5000),
				Friends:   rng.Intn(500),
			},
		}
		// Optional substructures are left out at random, as a real feed does.
		if rng.Intn(3) == 0 {
			pl := mockPlaces[rng.Intn(len(mockPlaces))]
			p.Place = &pl
		}
		if rng.Intn(2) == 0 {
			p.Entities = &domain.Entities{Hashtags: []string{"sinovac", "vaccine"}[:1+rng.Intn(2)]}
		}
		corpus = append(corpus, p)
	}
	return &MockClient{corpus: corpus, limiter: rate.NewLimiter(rate.Inf, 1), logger: logger}
}

// Search serves the corpus newest first, paging with a max-id cursor.
func (mc *MockClient) Search(ctx context.Context, req domain.PageRequest) iter.Seq2[domain.Post, error] {
	return paginate(ctx, mc.limiter, mc.logger, req, func(_ context.Context, cursor string, count int) ([]domain.Post, string, error) {
		maxID := int64(len(mc.corpus))
		if cursor != "" {
			var err error
			if maxID, err = strconv.ParseInt(cursor, 10, 64); err != nil {
				return nil, "", err
			}
		}
		// corpus[i].ID == i+1, so the newest eligible post sits at maxID-1.
		var page []domain.Post
		for i := maxID - 1; i >= 0 && len(page) < count; i-- {
			p := mc.corpus[i]
			if req.Since.Set && p.ID <= req.Since.ID {
				break
			}
			page = append(page, p)
		}
		if len(page) == 0 {
			return nil, "", nil
		}
		return page, strconv.FormatInt(page[len(page)-1].ID-1, 10), nil
	})
}
