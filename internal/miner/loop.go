// Package miner drives the paged search loop: fetch a page, enrich each post,
// append it to the sink, and advance the watermark until the target is met or
// the service stops returning anything new.
package miner

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/qepting91/tweet-miner/internal/domain"
)

var (
	ErrFetch = errors.New("fetch failed")
	ErrSink  = errors.New("sink append failed")
)

// ProgressEvery is how often (in accepted records) progress is reported.
const ProgressEvery = 100

// Outcome is why a run stopped.
type Outcome int

const (
	TargetReached Outcome = iota
	Exhausted
	NoResults
	// Aborted accompanies a fatal fetch or sink error.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case TargetReached:
		return "target_reached"
	case Exhausted:
		return "exhausted"
	case NoResults:
		return "no_results"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// FetchFunc returns one lazy page sequence for the request.
type FetchFunc func(ctx context.Context, req domain.PageRequest) iter.Seq2[domain.Post, error]

// ExtractFunc turns a post into an output record. It must not fail.
type ExtractFunc func(p domain.Post) domain.Record

// AppendFunc delivers a record to the sink.
type AppendFunc func(r domain.Record) error

// Params configures one run.
type Params struct {
	Query      domain.Query
	Target     int
	PageSize   int
	Lang       string
	ResultType string
}

// RunState lives for a single run.
type RunState struct {
	Collected int
	Watermark domain.Watermark
	Previous  domain.Watermark
	Rounds    int
}

// Result is the terminal state of a run.
type Result struct {
	Outcome   Outcome
	Collected int
	Watermark domain.Watermark
	Rounds    int
}

// Loop wires the collaborators of a run.
type Loop struct {
	Fetch   FetchFunc
	Extract ExtractFunc
	Append  AppendFunc

	// OnProgress, if set, is called every ProgressEvery records.
	OnProgress func(collected int)
	Logger     *slog.Logger
}

// Run pages through the search results until p.Target records have been
// appended or the watermark stops moving between rounds.
func (l *Loop) Run(ctx context.Context, p Params) (Result, error) {
	if p.Target <= 0 {
		return Result{}, fmt.Errorf("target must be positive, got %d", p.Target)
	}
	if p.PageSize <= 0 {
		return Result{}, fmt.Errorf("page size must be positive, got %d", p.PageSize)
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var st RunState
	done := func(o Outcome) Result {
		return Result{Outcome: o, Collected: st.Collected, Watermark: st.Watermark, Rounds: st.Rounds}
	}

	for {
		// Rounds > 0 stands in for "previous is not the sentinel".
		if st.Rounds > 0 && st.Previous == st.Watermark {
			return done(Exhausted), nil
		}
		st.Previous = st.Watermark
		st.Rounds++

		req := domain.PageRequest{
			Query:      p.Query,
			Since:      st.Watermark,
			Lang:       p.Lang,
			ResultType: p.ResultType,
			PageSize:   p.PageSize,
			MaxItems:   p.Target - st.Collected,
		}
		logger.Debug("Requesting page", "round", st.Rounds, "since", st.Watermark.String(), "remaining", req.MaxItems)

		for post, err := range l.Fetch(ctx, req) {
			if err != nil {
				return done(Aborted), fmt.Errorf("%w: round %d: %w", ErrFetch, st.Rounds, err)
			}
			if err := l.Append(l.Extract(post)); err != nil {
				return done(Aborted), fmt.Errorf("%w: record %d: %w", ErrSink, st.Collected+1, err)
			}
			st.Collected++
			if st.Collected%ProgressEvery == 0 {
				logger.Info("Downloaded posts", "count", st.Collected)
				if l.OnProgress != nil {
					l.OnProgress(st.Collected)
				}
			}
			st.Watermark = st.Watermark.Advance(post.ID)
			if st.Collected == p.Target {
				return done(TargetReached), nil
			}
		}

		if st.Collected == 0 {
			return done(NoResults), nil
		}
	}
}
