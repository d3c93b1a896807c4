package collector

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/qepting91/tweet-miner/internal/domain"
)

// defaultThrottleWait is used when a throttled response carries no reset time.
const defaultThrottleWait = 15 * time.Minute

// ThrottledError reports that the service asked us to back off until Until.
type ThrottledError struct {
	Until time.Time
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.Until.Format(time.RFC3339))
}

// pageFetcher loads one page of at most count posts starting at cursor
// ("" for the newest page) and returns the cursor of the next, older page.
type pageFetcher func(ctx context.Context, cursor string, count int) (posts []domain.Post, next string, err error)

// paginate turns a page fetcher into the lazy sequence a Searcher returns.
// Posts at or below req.Since are dropped and end the sequence after their page.
// Throttling is waited out and the same page is retried.
func paginate(ctx context.Context, limiter *rate.Limiter, logger *slog.Logger, req domain.PageRequest, fetch pageFetcher) iter.Seq2[domain.Post, error] {
	return func(yield func(domain.Post, error) bool) {
		remaining := req.MaxItems
		cursor := ""
		for remaining > 0 {
			// Wait for token
			if err := limiter.Wait(ctx); err != nil {
				yield(domain.Post{}, err)
				return
			}

			posts, next, err := fetch(ctx, cursor, min(req.PageSize, remaining))
			var throttled *ThrottledError
			if errors.As(err, &throttled) {
				logger.Warn("Rate limit reached, sleeping", "until", throttled.Until)
				if err := sleepUntil(ctx, throttled.Until); err != nil {
					yield(domain.Post{}, err)
					return
				}
				continue
			}
			if err != nil {
				yield(domain.Post{}, err)
				return
			}

			reachedSince := false
			for _, p := range posts {
				if req.Since.Set && p.ID <= req.Since.ID {
					reachedSince = true
					continue
				}
				if !yield(p, nil) {
					return
				}
				remaining--
				if remaining == 0 {
					return
				}
			}
			if len(posts) == 0 || reachedSince || next == "" {
				return
			}
			cursor = next
		}
	}
}

func sleepUntil(ctx context.Context, until time.Time) error {
	d := time.Until(until)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func throttledFor(reset time.Time) *ThrottledError {
	if reset.IsZero() {
		reset = time.Now().Add(defaultThrottleWait)
	}
	return &ThrottledError{Until: reset}
}
