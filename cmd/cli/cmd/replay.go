package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/executor"
	"github.com/picogrid/robot-arena/pkg/logger"
	"github.com/picogrid/robot-arena/pkg/reporting"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Record one game as a replay file",
	Long: `Play a single game and write every round snapshot to a replay file.
The game ends early once no robots and no missiles are left.`,
	Example: `  arena-sim replay --bots spinner,charger --seed 7 --out game.json`,
	RunE:    recordReplay,
}

func init() {
	replayCmd.Flags().StringP("scenario", "s", "", "scenario name to replay")
	replayCmd.Flags().StringSliceP("bots", "b", nil, "registered bots to pit against each other")
	addMatchFlags(replayCmd)
	replayCmd.Flags().StringP("out", "o", "", "replay file (.json, .yaml); defaults to logging.replay_path or replay.json")
}

func recordReplay(cmd *cobra.Command, _ []string) error {
	overrides := cliOverrides(cmd)
	delete(overrides, "result_path")
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		overrides["replay_path"] = out
	}

	cfg, err := loadConfig(overrides)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lu, err := selectLineup(cmd)
	if err != nil {
		return err
	}

	physics := cfg.Physics
	var boardOpts []arena.Option
	if lu.scenario != nil {
		if physics, err = lu.scenario.ApplyPhysics(cfg.Physics); err != nil {
			return err
		}
		boardOpts = lu.scenario.BoardOptions()
	}
	boardOpts = append(boardOpts, arena.WithPhysics(physics))

	seed := cfg.Match.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ml := reporting.NewMatchLogger(nil, cfg.Logging.ShowEvents)
	e, err := executor.New(lu.competitors,
		executor.WithSeed(seed),
		executor.WithBoardOptions(boardOpts...),
		executor.WithEvents(ml.HandleEvent))
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext("replay")
	defer cancel()

	logger.Progressf("Simulating %s (seed %d)...", lu.name, seed)
	rounds, err := e.Simulate(ctx, cfg.Match.Rounds)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	path := cfg.Logging.ReplayPath
	if path == "" {
		path = "replay.json"
	}
	replay := &reporting.Replay{
		MatchID:     ml.MatchID(),
		GeneratedAt: time.Now(),
		Competitors: e.Competitors(),
		Physics:     physics,
		Rounds:      rounds,
	}
	if err := reporting.WriteReplay(path, replay); err != nil {
		return fmt.Errorf("failed to write replay: %w", err)
	}

	last := rounds[len(rounds)-1]
	survivors := make([]string, 0, len(last.Robots))
	for id := range last.Robots {
		survivors = append(survivors, replay.Competitors[id])
	}
	sort.Strings(survivors)

	logger.LogKeyValue("Rounds", last.Number)
	logger.LogList("Survivors", survivors)
	logger.Successf("Replay written to %s", path)
	return nil
}
