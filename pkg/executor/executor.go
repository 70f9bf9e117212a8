// Package executor runs many games between the same set of competitors and
// aggregates who survived and who won.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/logger"
)

var (
	// ErrNoCompetitors is returned when an executor is built for an empty field
	ErrNoCompetitors = errors.New("executor: at least one competitor is required")
	// ErrDuplicateCompetitor is returned when two competitors share an id
	ErrDuplicateCompetitor = errors.New("executor: duplicate competitor id")
)

// EventHandler receives board events tagged with the game they happened in
type EventHandler func(game int, ev arena.Event)

// GameResult describes one finished game
type GameResult struct {
	ID        string        `json:"id" yaml:"id"`
	Game      int           `json:"game" yaml:"game"`
	Rounds    int           `json:"rounds" yaml:"rounds"`
	Survivors []string      `json:"survivors" yaml:"survivors"`
	Winner    string        `json:"winner,omitempty" yaml:"winner,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Standing is one competitor's line in the match stats
type Standing struct {
	ID       string `json:"id" yaml:"id"`
	Won      int    `json:"won" yaml:"won"`
	Survived int    `json:"survived" yaml:"survived"`
	// Deaths is games minus survived; standing when the round budget runs
	// out counts as surviving
	Deaths int `json:"deaths" yaml:"deaths"`
}

// Stats is the aggregate over every game an executor has recorded
type Stats struct {
	Games     int        `json:"games" yaml:"games"`
	Standings []Standing `json:"standings" yaml:"standings"`
}

// Ranking returns the competitor ids in standing order
func (s Stats) Ranking() []string {
	ids := make([]string, len(s.Standings))
	for i, st := range s.Standings {
		ids[i] = st.ID
	}
	return ids
}

// Deaths returns the death count per competitor id
func (s Stats) Deaths() map[string]int {
	out := make(map[string]int, len(s.Standings))
	for _, st := range s.Standings {
		out[st.ID] = st.Deaths
	}
	return out
}

// Executor owns the aggregate counters of one match. Each game is played on
// a fresh board; games run one after another.
type Executor struct {
	competitors []arena.Competitor
	boardOpts   []arena.Option
	seed        int64
	onEvent     EventHandler
	log         logger.Logger
	metrics     *metrics

	mu       sync.Mutex
	games    int
	survived map[string]int
	won      map[string]int
}

type options struct {
	boardOpts []arena.Option
	seed      *int64
	onEvent   EventHandler
	log       logger.Logger
	meter     metric.Meter
}

// Option configures an Executor
type Option func(*options)

// WithBoardOptions passes options to every board the executor builds
func WithBoardOptions(opts ...arena.Option) Option {
	return func(o *options) { o.boardOpts = append(o.boardOpts, opts...) }
}

// WithSeed makes placement reproducible. Game n is placed from seed+n.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithEvents registers a handler for the events of every game
func WithEvents(fn EventHandler) Option {
	return func(o *options) { o.onEvent = fn }
}

// WithLogger replaces the executor logger
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMeter replaces the meter used for game metrics
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// New validates the competitor set and returns an executor with zeroed
// counters
func New(competitors []arena.Competitor, opts ...Option) (*Executor, error) {
	if len(competitors) == 0 {
		return nil, ErrNoCompetitors
	}

	seen := make(map[string]bool, len(competitors))
	for _, c := range competitors {
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCompetitor, c.ID)
		}
		if c.Factory == nil {
			return nil, fmt.Errorf("competitor %s has no program factory", c.ID)
		}
		seen[c.ID] = true
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithPrefix("executor")
	}
	if o.meter == nil {
		o.meter = defaultMeter()
	}

	m, err := newMetrics(o.meter)
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if o.seed != nil {
		seed = *o.seed
	}

	e := &Executor{
		competitors: append([]arena.Competitor(nil), competitors...),
		boardOpts:   o.boardOpts,
		seed:        seed,
		onEvent:     o.onEvent,
		log:         o.log,
		metrics:     m,
		survived:    make(map[string]int, len(competitors)),
		won:         make(map[string]int, len(competitors)),
	}
	for _, c := range competitors {
		e.survived[c.ID] = 0
		e.won[c.ID] = 0
	}
	return e, nil
}

// Competitors returns the competitor ids in registration order
func (e *Executor) Competitors() []string {
	ids := make([]string, len(e.competitors))
	for i, c := range e.competitors {
		ids[i] = c.ID
	}
	return ids
}

func (e *Executor) newBoard(ctx context.Context, game int) (*arena.Board, error) {
	opts := []arena.Option{arena.WithRand(rand.New(rand.NewSource(e.seed + int64(game))))}
	opts = append(opts, e.boardOpts...)
	opts = append(opts, arena.WithEvents(func(ev arena.Event) {
		e.metrics.recordEvent(ev)
		if e.onEvent != nil {
			e.onEvent(game, ev)
		}
	}))

	board, err := arena.NewBoard(ctx, e.competitors, opts...)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", game, err)
	}
	return board, nil
}

// ExecuteGame plays one game on a fresh board until at most one robot is
// left or the round budget runs out, then records survivors and the winner.
func (e *Executor) ExecuteGame(ctx context.Context, rounds int) (GameResult, error) {
	e.mu.Lock()
	game := e.games
	e.mu.Unlock()

	start := time.Now()
	board, err := e.newBoard(ctx, game)
	if err != nil {
		return GameResult{}, err
	}

	for i := 0; i < rounds; i++ {
		if err := board.Step(ctx); err != nil {
			return GameResult{}, fmt.Errorf("game %d: %w", game, err)
		}
		if board.LiveRobots() <= 1 {
			break
		}
	}

	res := GameResult{
		ID:        uuid.New().String(),
		Game:      game,
		Rounds:    board.Round(),
		Survivors: board.Survivors(),
		Duration:  time.Since(start),
	}
	if len(res.Survivors) == 1 {
		res.Winner = res.Survivors[0]
	}

	e.Record(res)
	e.metrics.recordGame(ctx, res)

	e.log.WithFields(map[string]interface{}{
		"game":   game,
		"rounds": res.Rounds,
	}).Debugf("finished with survivors %v", res.Survivors)

	return res, nil
}

// Record adds a finished game to the counters. ExecuteGame calls it; it is
// exported so results played on other executors can be merged.
func (e *Executor) Record(res GameResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.games++
	for _, id := range res.Survivors {
		if _, ok := e.survived[id]; ok {
			e.survived[id]++
		}
	}
	if _, ok := e.won[res.Winner]; ok && len(res.Survivors) == 1 {
		e.won[res.Winner]++
	}
}

// GenerateStats ranks competitors by wins, keeping registration order for
// ties
func (e *Executor) GenerateStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	standings := make([]Standing, len(e.competitors))
	for i, c := range e.competitors {
		standings[i] = Standing{
			ID:       c.ID,
			Won:      e.won[c.ID],
			Survived: e.survived[c.ID],
			Deaths:   e.games - e.survived[c.ID],
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Won > standings[j].Won
	})

	return Stats{Games: e.games, Standings: standings}
}

// Simulate plays one game for replay and returns the initial snapshot plus
// one per tick. It stops early once no robots and no missiles are left and
// does not touch the match counters.
func (e *Executor) Simulate(ctx context.Context, rounds int) ([]arena.Round, error) {
	e.mu.Lock()
	game := e.games
	e.mu.Unlock()

	board, err := e.newBoard(ctx, game)
	if err != nil {
		return nil, err
	}

	trace := make([]arena.Round, 0, rounds+1)
	trace = append(trace, board.Snapshot())
	for i := 0; i < rounds; i++ {
		if err := board.Step(ctx); err != nil {
			return trace, fmt.Errorf("replay: %w", err)
		}
		trace = append(trace, board.Snapshot())
		if board.LiveRobots() == 0 && board.LiveMissiles() == 0 {
			break
		}
	}
	return trace, nil
}
