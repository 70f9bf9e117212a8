package executor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/picogrid/robot-arena/pkg/arena"
)

const instrumentationName = "github.com/picogrid/robot-arena/pkg/executor"

func defaultMeter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	games    metric.Int64Counter
	rounds   metric.Int64Histogram
	duration metric.Float64Histogram
	events   metric.Int64Counter
}

func newMetrics(m metric.Meter) (*metrics, error) {
	var (
		out metrics
		err error
	)

	out.games, err = m.Int64Counter(
		"arena.games.executed",
		metric.WithDescription("Games played to completion"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating games counter: %w", err)
	}

	out.rounds, err = m.Int64Histogram(
		"arena.game.rounds",
		metric.WithDescription("Ticks played per game"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rounds histogram: %w", err)
	}

	out.duration, err = m.Float64Histogram(
		"arena.game.duration",
		metric.WithDescription("Wall-clock time per game"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	out.events, err = m.Int64Counter(
		"arena.board.events",
		metric.WithDescription("Board events by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events counter: %w", err)
	}

	return &out, nil
}

func (m *metrics) recordGame(ctx context.Context, res GameResult) {
	outcome := "draw"
	switch {
	case res.Winner != "":
		outcome = "win"
	case len(res.Survivors) == 0:
		outcome = "wipeout"
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))

	m.games.Add(ctx, 1, attrs)
	m.rounds.Record(ctx, int64(res.Rounds), attrs)
	m.duration.Record(ctx, res.Duration.Seconds(), attrs)
}

func (m *metrics) recordEvent(ev arena.Event) {
	m.events.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("type", string(ev.Type))))
}
