package executor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/picogrid/robot-arena/pkg/arena"
)

// MatchConfig sets the size of a match
type MatchConfig struct {
	Games   int
	Rounds  int
	Seed    int64
	Workers int // parallel games; RunMatch ignores it
}

func (c MatchConfig) validate() error {
	if c.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	return nil
}

// MatchResult holds every game of a match in game order and the aggregate
type MatchResult struct {
	Games    []GameResult  `json:"games" yaml:"games"`
	Stats    Stats         `json:"stats" yaml:"stats"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// GameDone is called after each finished game
type GameDone func(res GameResult)

// RunMatch plays cfg.Games games one after another on a single executor
func RunMatch(ctx context.Context, competitors []arena.Competitor, cfg MatchConfig, done GameDone, opts ...Option) (*MatchResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	e, err := New(competitors, append(opts, WithSeed(cfg.Seed))...)
	if err != nil {
		return nil, err
	}

	games := make([]GameResult, 0, cfg.Games)
	for i := 0; i < cfg.Games; i++ {
		res, err := e.ExecuteGame(ctx, cfg.Rounds)
		if err != nil {
			return nil, err
		}
		games = append(games, res)
		if done != nil {
			done(res)
		}
	}

	return &MatchResult{Games: games, Stats: e.GenerateStats(), Duration: time.Since(start)}, nil
}

// RunParallel plays each game on its own executor, at most cfg.Workers at a
// time, and merges the results afterwards in game order. Seeds match
// RunMatch, so the same configuration places robots identically. An event
// handler passed through opts is called from several games at once.
func RunParallel(ctx context.Context, competitors []arena.Competitor, cfg MatchConfig, done GameDone, opts ...Option) (*MatchResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	total, err := New(competitors, opts...)
	if err != nil {
		return nil, err
	}

	var resolved options
	for _, opt := range opts {
		opt(&resolved)
	}

	games := make([]GameResult, cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			gameOpts := append(append([]Option(nil), opts...), WithSeed(cfg.Seed+int64(i)))
			if resolved.onEvent != nil {
				gameOpts = append(gameOpts, WithEvents(func(_ int, ev arena.Event) {
					resolved.onEvent(i, ev)
				}))
			}
			e, err := New(competitors, gameOpts...)
			if err != nil {
				return err
			}
			res, err := e.ExecuteGame(gctx, cfg.Rounds)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			res.Game = i
			games[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range games {
		total.Record(res)
		if done != nil {
			done(res)
		}
	}

	return &MatchResult{Games: games, Stats: total.GenerateStats(), Duration: time.Since(start)}, nil
}
