package executor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/geometry"
	"github.com/picogrid/robot-arena/pkg/logger"
)

func idle() arena.Program { return arena.ProgramFunc{} }

func aggressor() arena.Program {
	return arena.ProgramFunc{RespondFunc: func(ctl *arena.Controls) { ctl.Cannon(0, 100) }}
}

func faulty() arena.Program {
	return arena.ProgramFunc{RespondFunc: func(*arena.Controls) { panic("broken") }}
}

// sweeper turns a little every tick and fires along its heading
func sweeper() arena.Program {
	heading := 0.0
	return arena.ProgramFunc{RespondFunc: func(ctl *arena.Controls) {
		heading += 37
		ctl.Drive(heading, 40)
		ctl.Cannon(heading, 250)
		ctl.PointScanner(heading, 10)
	}}
}

func testOptions(extra ...Option) []Option {
	opts := []Option{
		WithLogger(logger.Discard()),
		WithMeter(noop.NewMeterProvider().Meter("test")),
		WithBoardOptions(arena.WithLogger(logger.Discard())),
	}
	return append(opts, extra...)
}

func pointBlankOptions() []Option {
	return testOptions(WithBoardOptions(arena.WithPositions(
		geometry.Vec2{X: 400, Y: 500},
		geometry.Vec2{X: 500, Y: 500},
	)))
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, testOptions()...); !errors.Is(err, ErrNoCompetitors) {
		t.Errorf("empty field: error = %v, want ErrNoCompetitors", err)
	}

	dup := []arena.Competitor{{ID: "a", Factory: idle}, {ID: "a", Factory: idle}}
	if _, err := New(dup, testOptions()...); !errors.Is(err, ErrDuplicateCompetitor) {
		t.Errorf("duplicate ids: error = %v, want ErrDuplicateCompetitor", err)
	}

	missing := []arena.Competitor{{ID: "a"}}
	if _, err := New(missing, testOptions()...); err == nil {
		t.Errorf("expected error for a competitor without a factory")
	}
}

func TestPointBlankMatch(t *testing.T) {
	competitors := []arena.Competitor{
		{ID: "aggressor", Factory: aggressor},
		{ID: "target", Factory: idle},
	}

	var finished []GameResult
	res, err := RunMatch(context.Background(), competitors,
		MatchConfig{Games: 3, Rounds: 200, Seed: 1},
		func(r GameResult) { finished = append(finished, r) },
		pointBlankOptions()...)
	if err != nil {
		t.Fatalf("RunMatch() error = %v", err)
	}

	if len(finished) != 3 || len(res.Games) != 3 {
		t.Fatalf("games reported = %d, returned = %d, want 3", len(finished), len(res.Games))
	}
	for i, g := range res.Games {
		if g.Winner != "aggressor" || g.Rounds != 93 || g.Game != i {
			t.Errorf("game %d = %+v, want aggressor winning in round 93", i, g)
		}
		if g.ID == "" {
			t.Errorf("game %d has no id", i)
		}
	}

	want := []Standing{
		{ID: "aggressor", Won: 3, Survived: 3, Deaths: 0},
		{ID: "target", Won: 0, Survived: 0, Deaths: 3},
	}
	if res.Stats.Games != 3 {
		t.Errorf("games = %d, want 3", res.Stats.Games)
	}
	for i, st := range res.Stats.Standings {
		if st != want[i] {
			t.Errorf("standing %d = %+v, want %+v", i, st, want[i])
		}
	}
}

func TestRankingIsStableForTies(t *testing.T) {
	competitors := []arena.Competitor{
		{ID: "first", Factory: idle},
		{ID: "second", Factory: idle},
		{ID: "third", Factory: idle},
	}

	res, err := RunMatch(context.Background(), competitors,
		MatchConfig{Games: 2, Rounds: 5, Seed: 7}, nil, testOptions()...)
	if err != nil {
		t.Fatalf("RunMatch() error = %v", err)
	}

	ranking := res.Stats.Ranking()
	for i, id := range []string{"first", "second", "third"} {
		if ranking[i] != id {
			t.Fatalf("ranking = %v, want registration order", ranking)
		}
	}
	for _, st := range res.Stats.Standings {
		if st.Won != 0 || st.Survived != 2 || st.Deaths != 0 {
			t.Errorf("%s = %+v, want 2 survived draws", st.ID, st)
		}
	}
	for _, g := range res.Games {
		if g.Rounds != 5 || g.Winner != "" {
			t.Errorf("game %+v, want a 5-round draw", g)
		}
	}
}

func TestWinnerRanksFirst(t *testing.T) {
	competitors := []arena.Competitor{
		{ID: "broken", Factory: faulty},
		{ID: "quiet", Factory: idle},
	}

	e, err := New(competitors, testOptions(WithSeed(3))...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := e.ExecuteGame(context.Background(), 50)
	if err != nil {
		t.Fatalf("ExecuteGame() error = %v", err)
	}
	if res.Winner != "quiet" || res.Rounds != 1 {
		t.Errorf("result = %+v, want quiet winning in round 1", res)
	}

	stats := e.GenerateStats()
	if got := stats.Ranking(); got[0] != "quiet" || got[1] != "broken" {
		t.Errorf("ranking = %v, want [quiet broken]", got)
	}
	deaths := stats.Deaths()
	if deaths["broken"] != 1 || deaths["quiet"] != 0 {
		t.Errorf("deaths = %v", deaths)
	}
}

func TestSingleCompetitorWinsAfterOneRound(t *testing.T) {
	e, err := New([]arena.Competitor{{ID: "solo", Factory: idle}}, testOptions()...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := e.ExecuteGame(context.Background(), 100)
	if err != nil {
		t.Fatalf("ExecuteGame() error = %v", err)
	}
	if res.Rounds != 1 || res.Winner != "solo" {
		t.Errorf("result = %+v, want solo winning after one round", res)
	}
}

func TestExecuteGameCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	hang := func() arena.Program {
		return arena.ProgramFunc{RespondFunc: func(*arena.Controls) { <-release }}
	}
	e, err := New([]arena.Competitor{{ID: "a", Factory: hang}, {ID: "b", Factory: idle}}, testOptions()...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.ExecuteGame(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if stats := e.GenerateStats(); stats.Games != 0 {
		t.Errorf("cancelled game was recorded: %+v", stats)
	}
}

func TestSimulateStopsWhenBoardIsEmpty(t *testing.T) {
	competitors := []arena.Competitor{
		{ID: "a", Factory: faulty},
		{ID: "b", Factory: faulty},
	}
	e, err := New(competitors, testOptions(WithSeed(11))...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	trace, err := e.Simulate(context.Background(), 50)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(trace) != 2 {
		t.Fatalf("trace length = %d, want initial snapshot plus one tick", len(trace))
	}
	if trace[0].Number != 0 || len(trace[0].Robots) != 2 {
		t.Errorf("initial snapshot = %+v, want both robots in round 0", trace[0])
	}
	if len(trace[1].Robots) != 0 {
		t.Errorf("round 1 robots = %+v, want none", trace[1].Robots)
	}
	if stats := e.GenerateStats(); stats.Games != 0 {
		t.Errorf("simulate touched the counters: %+v", stats)
	}
}

func TestSimulateRunsFullBudget(t *testing.T) {
	competitors := []arena.Competitor{
		{ID: "aggressor", Factory: aggressor},
		{ID: "target", Factory: idle},
	}
	e, err := New(competitors, pointBlankOptions()...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	trace, err := e.Simulate(context.Background(), 120)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(trace) != 121 {
		t.Fatalf("trace length = %d, want 121", len(trace))
	}
	if len(trace[93].Robots) != 1 {
		t.Errorf("round 93 robots = %d, want only the aggressor", len(trace[93].Robots))
	}
	for i, round := range trace {
		if round.Number != i {
			t.Fatalf("trace[%d].Number = %d", i, round.Number)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	competitors := []arena.Competitor{
		{ID: "north", Factory: sweeper},
		{ID: "south", Factory: sweeper},
		{ID: "east", Factory: sweeper},
		{ID: "west", Factory: idle},
	}
	cfg := MatchConfig{Games: 6, Rounds: 150, Seed: 99, Workers: 3}

	seq, err := RunMatch(context.Background(), competitors, cfg, nil, testOptions()...)
	if err != nil {
		t.Fatalf("RunMatch() error = %v", err)
	}

	var (
		mu       sync.Mutex
		launches = map[int]int{}
	)
	countLaunches := WithEvents(func(game int, ev arena.Event) {
		if ev.Type != arena.EventMissileLaunched {
			return
		}
		mu.Lock()
		launches[game]++
		mu.Unlock()
	})

	var order []int
	par, err := RunParallel(context.Background(), competitors, cfg,
		func(r GameResult) { order = append(order, r.Game) },
		testOptions(countLaunches)...)
	if err != nil {
		t.Fatalf("RunParallel() error = %v", err)
	}

	for i := range seq.Games {
		s, p := seq.Games[i], par.Games[i]
		if s.Rounds != p.Rounds || s.Winner != p.Winner || len(s.Survivors) != len(p.Survivors) {
			t.Errorf("game %d differs: sequential %+v, parallel %+v", i, s, p)
		}
		if order[i] != i {
			t.Errorf("games reported out of order: %v", order)
		}
		if launches[i] == 0 {
			t.Errorf("no launches recorded for game %d", i)
		}
	}

	if seq.Stats.Games != par.Stats.Games {
		t.Fatalf("games = %d and %d", seq.Stats.Games, par.Stats.Games)
	}
	for i := range seq.Stats.Standings {
		if seq.Stats.Standings[i] != par.Stats.Standings[i] {
			t.Errorf("standing %d: sequential %+v, parallel %+v", i, seq.Stats.Standings[i], par.Stats.Standings[i])
		}
	}
}

func TestMatchConfigValidation(t *testing.T) {
	competitors := []arena.Competitor{{ID: "a", Factory: idle}}

	tests := []struct {
		name string
		cfg  MatchConfig
	}{
		{name: "no games", cfg: MatchConfig{Games: 0, Rounds: 10}},
		{name: "no rounds", cfg: MatchConfig{Games: 1, Rounds: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RunMatch(context.Background(), competitors, tt.cfg, nil, testOptions()...); err == nil {
				t.Errorf("RunMatch() expected error")
			}
			if _, err := RunParallel(context.Background(), competitors, tt.cfg, nil, testOptions()...); err == nil {
				t.Errorf("RunParallel() expected error")
			}
		})
	}
}
