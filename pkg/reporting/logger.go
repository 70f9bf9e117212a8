// Package reporting records match events for the console and writes replay
// and result files.
package reporting

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/executor"
	"github.com/picogrid/robot-arena/pkg/logger"
)

// MatchLogger collects the events of one match and prints them as they
// arrive. It is safe for use from parallel games.
type MatchLogger struct {
	matchID    string
	startTime  time.Time
	out        io.Writer
	showEvents bool

	mu     sync.RWMutex
	events []MatchEvent
	counts map[arena.EventType]int
	games  []executor.GameResult
}

// MatchEvent is a logged board event
type MatchEvent struct {
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
	Game      int             `json:"game" yaml:"game"`
	Round     int             `json:"round" yaml:"round"`
	Type      arena.EventType `json:"type" yaml:"type"`
	Severity  string          `json:"severity" yaml:"severity"`
	RobotID   string          `json:"robot,omitempty" yaml:"robot,omitempty"`
	Message   string          `json:"message" yaml:"message"`
}

// Severity constants
const (
	SeverityDebug   = "debug"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

const maxEvents = 10000

var (
	colorDebug   = color.New(color.FgHiBlack)
	colorInfo    = color.New(color.FgCyan)
	colorWarning = color.New(color.FgYellow)
	colorRobot   = color.New(color.FgMagenta, color.Bold)
	colorSuccess = color.New(color.FgGreen)
)

// NewMatchLogger creates a logger with a fresh match id. With showEvents
// every board event is printed; otherwise only competitor faults are.
func NewMatchLogger(out io.Writer, showEvents bool) *MatchLogger {
	if out == nil {
		out = os.Stdout
	}
	return &MatchLogger{
		matchID:    uuid.New().String(),
		startTime:  time.Now(),
		out:        out,
		showEvents: showEvents,
		counts:     make(map[arena.EventType]int),
	}
}

// MatchID returns the uuid identifying this match
func (ml *MatchLogger) MatchID() string {
	return ml.matchID
}

// HandleEvent records a board event. Its signature matches
// executor.EventHandler.
func (ml *MatchLogger) HandleEvent(game int, ev arena.Event) {
	event := MatchEvent{
		Timestamp: time.Now(),
		Game:      game,
		Round:     ev.Round,
		Type:      ev.Type,
		RobotID:   ev.RobotID,
	}

	switch ev.Type {
	case arena.EventInitFailed:
		event.Severity = SeverityWarning
		event.Message = fmt.Sprintf("excluded, initialize failed: %v", ev.Err)
	case arena.EventRobotFaulted:
		event.Severity = SeverityWarning
		event.Message = fmt.Sprintf("killed, respond failed: %v", ev.Err)
	case arena.EventRobotDestroyed:
		event.Severity = SeverityInfo
		event.Message = fmt.Sprintf("destroyed at (%.0f, %.0f)", ev.Position.X, ev.Position.Y)
	case arena.EventMissileLaunched:
		event.Severity = SeverityDebug
		event.Message = fmt.Sprintf("fired missile %d", ev.MissileID)
	case arena.EventMissileDetonated:
		event.Severity = SeverityDebug
		event.Message = fmt.Sprintf("missile %d detonated at (%.0f, %.0f)", ev.MissileID, ev.Position.X, ev.Position.Y)
	default:
		event.Severity = SeverityDebug
		event.Message = string(ev.Type)
	}

	ml.mu.Lock()
	ml.counts[ev.Type]++
	ml.events = append(ml.events, event)
	if len(ml.events) > maxEvents {
		ml.events = ml.events[len(ml.events)-maxEvents:]
	}
	ml.mu.Unlock()

	if ml.showEvents || event.Severity == SeverityWarning {
		ml.print(event)
	}
}

// RecordGame records a finished game without printing it
func (ml *MatchLogger) RecordGame(res executor.GameResult) {
	ml.mu.Lock()
	ml.games = append(ml.games, res)
	ml.mu.Unlock()
}

// LogGame records a finished game and logs its outcome
func (ml *MatchLogger) LogGame(res executor.GameResult) {
	ml.RecordGame(res)

	outcome := "draw"
	switch {
	case res.Winner != "":
		outcome = "won by " + colorRobot.Sprint(res.Winner)
	case len(res.Survivors) == 0:
		outcome = "no survivors"
	}
	logger.WithFields(map[string]interface{}{
		"game":   res.Game + 1,
		"rounds": res.Rounds,
	}).Infof("%s Game %s", logger.IconDot, outcome)
}

func (ml *MatchLogger) print(event MatchEvent) {
	var severityColor *color.Color
	switch event.Severity {
	case SeverityWarning:
		severityColor = colorWarning
	case SeverityInfo:
		severityColor = colorInfo
	default:
		severityColor = colorDebug
	}

	who := ""
	if event.RobotID != "" {
		who = colorRobot.Sprint(event.RobotID) + " "
	}

	_, _ = fmt.Fprintf(ml.out, "[%s] %s game %d round %d | %s%s\n",
		event.Timestamp.Format("15:04:05.000"),
		severityColor.Sprint(fmt.Sprintf("%-8s", event.Severity)),
		event.Game+1,
		event.Round,
		who,
		event.Message)
}

// GetEvents returns the retained events
func (ml *MatchLogger) GetEvents() []MatchEvent {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	events := make([]MatchEvent, len(ml.events))
	copy(events, ml.events)
	return events
}

// MatchSummary represents a summary of the match
type MatchSummary struct {
	MatchID     string
	StartTime   time.Time
	Duration    time.Duration
	Games       int
	EventCounts map[arena.EventType]int
	Wins        map[string]int
	Draws       int
}

// GetSummary returns a match summary
func (ml *MatchLogger) GetSummary() MatchSummary {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	counts := make(map[arena.EventType]int, len(ml.counts))
	for k, v := range ml.counts {
		counts[k] = v
	}

	wins := make(map[string]int)
	draws := 0
	for _, g := range ml.games {
		if g.Winner != "" {
			wins[g.Winner]++
		} else {
			draws++
		}
	}

	return MatchSummary{
		MatchID:     ml.matchID,
		StartTime:   ml.startTime,
		Duration:    time.Since(ml.startTime),
		Games:       len(ml.games),
		EventCounts: counts,
		Wins:        wins,
		Draws:       draws,
	}
}

// PrintSummary prints the event distribution and the final standings
func (ml *MatchLogger) PrintSummary(stats executor.Stats) {
	summary := ml.GetSummary()

	line := strings.Repeat("=", 50)
	_, _ = colorSuccess.Fprintf(ml.out, "\n%s\nMATCH SUMMARY - %s\n%s\n", line, summary.MatchID[:8], line)

	_, _ = fmt.Fprintf(ml.out, "%s Duration: %v | Games: %d | Draws: %d\n",
		logger.IconTrophy, summary.Duration.Round(time.Millisecond), stats.Games, summary.Draws)

	if len(summary.EventCounts) > 0 {
		_, _ = fmt.Fprintln(ml.out, "\nEvent Distribution:")
		types := make([]string, 0, len(summary.EventCounts))
		for t := range summary.EventCounts {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			_, _ = fmt.Fprintf(ml.out, "   %-20s: %d\n", t, summary.EventCounts[arena.EventType(t)])
		}
	}

	_, _ = fmt.Fprintln(ml.out)
	StandingsTable(stats).Fprint(ml.out)

	if len(stats.Standings) > 0 && stats.Standings[0].Won > 0 {
		_, _ = fmt.Fprintf(ml.out, "\n%s %s\n", logger.IconTrophy,
			colorSuccess.Sprintf("%s leads with %d wins", stats.Standings[0].ID, stats.Standings[0].Won))
	}
}

// StandingsTable renders match stats as a table
func StandingsTable(stats executor.Stats) *logger.Table {
	table := logger.NewTable("RANK", "ROBOT", "WON", "SURVIVED", "DEATHS")
	for i, st := range stats.Standings {
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			st.ID,
			fmt.Sprintf("%d", st.Won),
			fmt.Sprintf("%d", st.Survived),
			fmt.Sprintf("%d", st.Deaths),
		)
	}
	return table
}
