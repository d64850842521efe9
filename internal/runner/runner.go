// Package runner follows article links from a seed title until the trail
// reaches its destination, loops, or can go no further.
package runner

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/wikitrail/internal/clock/system"
	"github.com/JakeFAU/wikitrail/internal/id/uuid"
	"github.com/JakeFAU/wikitrail/internal/trail"
)

// State is a run's position in the trail state machine.
type State string

// Run states. Every state but StateRunning is terminal.
const (
	StateRunning          State = "RUNNING"
	StateFoundDestination State = "FOUND_DESTINATION"
	StateLoopDetected     State = "LOOP_DETECTED"
	StateFetchFailed      State = "FETCH_FAILED"
	StateExtractFailed    State = "EXTRACT_FAILED"
)

// Terminal reports whether no further transitions are possible from s.
func (s State) Terminal() bool {
	return s != StateRunning
}

// ErrEmptyTitle reports a blank seed, or a blank title handed back by an
// Extractor.
var ErrEmptyTitle = errors.New("seed title is empty")

// Fetcher downloads the markup of an article.
type Fetcher interface {
	Fetch(ctx context.Context, title string) (string, error)
}

// Extractor picks the next title out of article markup.
type Extractor interface {
	Extract(body string) (string, error)
}

// Observer is notified as a run progresses.
type Observer interface {
	ObserveHop()
	ObserveFetch(bytesFetched int, duration time.Duration, err error)
	ObserveRun(state string, length int)
}

// Clock tells the time fetches are measured with.
type Clock interface {
	Now() time.Time
	Since(start time.Time) time.Duration
}

// IDGenerator names runs.
type IDGenerator interface {
	NewID() string
}

// Result describes a finished run.
type Result struct {
	RunID string
	State State
	Trail trail.Trail
	// Last is the title the run stopped on: the repeated title for a loop,
	// the title that could not be fetched or had no link, or the destination.
	Last string
	// Err is the fetch or extraction error behind a failed state.
	Err error
}

// Config carries the runner's settings and collaborators. Clock and IDs
// default to the host clock and UUIDv7 run IDs.
type Config struct {
	Destination string
	Clock       Clock
	IDs         IDGenerator
}

// Runner drives the trail state machine.
type Runner struct {
	destination string
	fetcher     Fetcher
	extractor   Extractor
	observer    Observer
	logger      *zap.Logger
	clock       Clock
	ids         IDGenerator
}

// New builds a Runner. observer and logger may be nil.
func New(cfg Config, fetcher Fetcher, extractor Extractor, observer Observer, logger *zap.Logger) *Runner {
	if strings.TrimSpace(cfg.Destination) == "" {
		cfg.Destination = trail.DefaultDestination
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = system.New()
	}
	if cfg.IDs == nil {
		cfg.IDs = uuid.New()
	}
	return &Runner{
		destination: cfg.Destination,
		fetcher:     fetcher,
		extractor:   extractor,
		observer:    observer,
		logger:      logger,
		clock:       cfg.Clock,
		ids:         cfg.IDs,
	}
}

// step is the state carried between iterations.
type step struct {
	state   State
	trail   trail.Trail
	current string
	err     error
}

// Run follows links from seed until a terminal state is reached. Failures
// along the trail are reported through Result, not as an error; the error
// return is reserved for an unusable seed.
func (r *Runner) Run(ctx context.Context, seed string) (Result, error) {
	if strings.TrimSpace(seed) == "" {
		return Result{}, ErrEmptyTitle
	}
	runID := r.ids.NewID()
	logger := r.logger.With(zap.String("run_id", runID), zap.String("seed", seed))
	logger.Info("trail started", zap.String("destination", r.destination))

	s := step{state: StateRunning, current: seed}
	for !s.state.Terminal() {
		s = r.advance(ctx, logger, s)
	}

	r.observer.ObserveRun(string(s.state), s.trail.Len())
	logger.Info("trail finished",
		zap.String("state", string(s.state)),
		zap.Int("length", s.trail.Len()),
		zap.String("last", s.current),
	)
	return Result{
		RunID: runID,
		State: s.state,
		Trail: s.trail,
		Last:  s.current,
		Err:   s.err,
	}, nil
}

// advance performs one transition. It never mutates s.
func (r *Runner) advance(ctx context.Context, logger *zap.Logger, s step) step {
	if s.trail.Contains(s.current) {
		logger.Info("loop found", zap.String("title", s.current))
		return step{state: StateLoopDetected, trail: s.trail, current: s.current}
	}

	next := s.trail.Append(s.current)
	r.observer.ObserveHop()
	logger.Debug("visiting", zap.Int("hop", next.Len()), zap.String("title", s.current))
	if trail.SameTitle(s.current, r.destination) {
		return step{state: StateFoundDestination, trail: next, current: s.current}
	}

	start := r.clock.Now()
	body, err := r.fetcher.Fetch(ctx, s.current)
	r.observer.ObserveFetch(len(body), r.clock.Since(start), err)
	if err != nil {
		logger.Info("fetch failed", zap.String("title", s.current), zap.Error(err))
		return step{state: StateFetchFailed, trail: next, current: s.current, err: err}
	}

	linked, err := r.extractor.Extract(body)
	if err == nil && strings.TrimSpace(linked) == "" {
		err = ErrEmptyTitle
	}
	if err != nil {
		logger.Info("no link to follow", zap.String("title", s.current), zap.Error(err))
		return step{state: StateExtractFailed, trail: next, current: s.current, err: err}
	}
	return step{state: StateRunning, trail: next, current: linked}
}

type nopObserver struct{}

func (nopObserver) ObserveHop() {}

func (nopObserver) ObserveFetch(int, time.Duration, error) {}

func (nopObserver) ObserveRun(string, int) {}
