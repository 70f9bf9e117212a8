package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/config"
	"github.com/picogrid/robot-arena/pkg/executor"
	"github.com/picogrid/robot-arena/pkg/logger"
	"github.com/picogrid/robot-arena/pkg/reporting"
	"github.com/picogrid/robot-arena/pkg/roster"
	"github.com/picogrid/robot-arena/pkg/utils"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a match",
	Long: `Run a match from a scenario file or between registered bots.
Without --scenario or --bots the choice is made interactively.`,
	Example: `  arena-sim run --scenario duel
  arena-sim run --bots spinner,rabbit,charger --games 50 --workers 4 --out results.yaml`,
	RunE: runMatch,
}

func init() {
	runCmd.Flags().StringP("scenario", "s", "", "scenario name to run")
	runCmd.Flags().StringSliceP("bots", "b", nil, "registered bots to pit against each other")
	runCmd.Flags().Int("games", 0, "games in the match")
	addMatchFlags(runCmd)
	runCmd.Flags().Int("workers", 0, "games played in parallel")
	runCmd.Flags().Bool("show-events", false, "print every board event")
	runCmd.Flags().StringP("out", "o", "", "write the match result to this file (.json, .yaml)")
}

// addMatchFlags registers the flags shared by run and replay
func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("rounds", 0, "round budget per game")
	cmd.Flags().Int64("seed", 0, "placement seed (0 picks one from the clock)")
	cmd.Flags().Duration("respond-timeout", 0, "time a program gets per tick")
}

// cliOverrides collects the flags the user actually set
func cliOverrides(cmd *cobra.Command) map[string]interface{} {
	overrides := make(map[string]interface{})
	flags := cmd.Flags()

	intFlags := map[string]string{"games": "games", "rounds": "rounds", "workers": "workers"}
	for flag, key := range intFlags {
		if flags.Lookup(flag) != nil && flags.Changed(flag) {
			v, _ := flags.GetInt(flag)
			overrides[key] = v
		}
	}
	if flags.Changed("seed") {
		v, _ := flags.GetInt64("seed")
		overrides["seed"] = v
	}
	if flags.Changed("respond-timeout") {
		v, _ := flags.GetDuration("respond-timeout")
		overrides["respond_timeout"] = v
	}
	if flags.Lookup("show-events") != nil && flags.Changed("show-events") {
		v, _ := flags.GetBool("show-events")
		overrides["show_events"] = v
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		v, _ := flags.GetString("out")
		overrides["result_path"] = v
	}
	return overrides
}

// lineup is what a match is played with: competitors plus the scenario they
// came from, if any
type lineup struct {
	name        string
	competitors []arena.Competitor
	scenario    *roster.Scenario
}

func runMatch(cmd *cobra.Command, _ []string) error {
	overrides := cliOverrides(cmd)
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
		if err := applyScenarioParameters(cfg, lu.scenario, overrides); err != nil {
			return err
		}
	}
	boardOpts = append(boardOpts, arena.WithPhysics(physics))

	seed := cfg.Match.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ml := reporting.NewMatchLogger(os.Stdout, cfg.Logging.ShowEvents)
	opts := []executor.Option{
		executor.WithBoardOptions(boardOpts...),
		executor.WithEvents(ml.HandleEvent),
	}

	matchCfg := executor.MatchConfig{
		Games:   cfg.Match.Games,
		Rounds:  cfg.Match.Rounds,
		Seed:    seed,
		Workers: cfg.Match.Workers,
	}

	ctx, cancel := interruptContext("match")
	defer cancel()

	logger.LogSection(fmt.Sprintf("Starting %s", lu.name))
	logger.LogKeyValue("Match", ml.MatchID())
	logger.LogKeyValue("Competitors", len(lu.competitors))
	logger.LogKeyValue("Games", matchCfg.Games)
	logger.LogKeyValue("Rounds", matchCfg.Rounds)
	logger.LogKeyValue("Seed", seed)

	done := ml.LogGame
	var bar *logger.ProgressBar
	if !cfg.Logging.ShowEvents && matchCfg.Games > 1 && utils.IsInteractive() {
		bar = logger.NewProgressBar(matchCfg.Games, "Playing")
		done = func(res executor.GameResult) {
			ml.RecordGame(res)
			bar.Increment()
		}
	}

	var res *executor.MatchResult
	if matchCfg.Workers > 1 {
		res, err = executor.RunParallel(ctx, lu.competitors, matchCfg, done, opts...)
	} else {
		res, err = executor.RunMatch(ctx, lu.competitors, matchCfg, done, opts...)
	}
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	ml.PrintSummary(res.Stats)

	if path := cfg.Logging.ResultPath; path != "" {
		result := reporting.NewResult(ml.MatchID(), seed, res)
		if lu.scenario != nil {
			result.Scenario = lu.scenario.Name
		}
		result.Events = eventCounts(ml.GetSummary())
		result.Metadata = map[string]interface{}{
			"workers": matchCfg.Workers,
			"rounds":  matchCfg.Rounds,
		}
		if err := reporting.WriteResult(path, result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		logger.Successf("Result written to %s", path)
	}

	logger.Success("Match completed successfully")
	return nil
}

func eventCounts(summary reporting.MatchSummary) map[string]int {
	out := make(map[string]int, len(summary.EventCounts))
	for t, n := range summary.EventCounts {
		out[string(t)] = n
	}
	return out
}

// applyScenarioParameters fills the match budgets from the scenario's
// parameters. Flags the user set keep their value.
func applyScenarioParameters(cfg *config.Config, s *roster.Scenario, overrides map[string]interface{}) error {
	if len(s.Parameters) == 0 {
		return nil
	}

	values := s.Defaults()
	if utils.IsInteractive() {
		prompted, err := utils.PromptForParameters(s.Parameters)
		if err != nil {
			return fmt.Errorf("failed to get parameters: %w", err)
		}
		values = prompted
	}

	budgets := []struct {
		name   string
		target *int
	}{
		{"games", &cfg.Match.Games},
		{"rounds", &cfg.Match.Rounds},
		{"workers", &cfg.Match.Workers},
	}
	for _, b := range budgets {
		if _, set := overrides[b.name]; set {
			continue
		}
		n, err := roster.IntParam(values, b.name, *b.target)
		if err != nil {
			return err
		}
		*b.target = n
	}

	if _, set := overrides["seed"]; !set {
		seed, err := roster.IntParam(values, "seed", int(cfg.Match.Seed))
		if err != nil {
			return err
		}
		cfg.Match.Seed = int64(seed)
	}

	return cfg.Validate()
}

// selectLineup resolves competitors from --bots, --scenario or an
// interactive choice
func selectLineup(cmd *cobra.Command) (*lineup, error) {
	bots, _ := cmd.Flags().GetStringSlice("bots")
	scenarioName, _ := cmd.Flags().GetString("scenario")

	switch {
	case len(bots) > 0 && scenarioName != "":
		return nil, fmt.Errorf("--bots and --scenario cannot be combined")
	case len(bots) > 0:
		return botLineup(bots)
	case scenarioName != "":
		scenarios, err := utils.DiscoverScenarios()
		if err != nil {
			return nil, fmt.Errorf("failed to discover scenarios: %w", err)
		}
		info, err := utils.FindScenario(scenarios, scenarioName)
		if err != nil {
			return nil, err
		}
		return scenarioLineup(info)
	}

	if !utils.IsInteractive() {
		return nil, fmt.Errorf("no competitors given; use --scenario or --bots")
	}

	scenarios, err := utils.DiscoverScenarios()
	if err != nil {
		return nil, fmt.Errorf("failed to discover scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		names, err := utils.PromptForPrograms(roster.DefaultRegistry)
		if err != nil {
			return nil, err
		}
		return botLineup(names)
	}

	info, err := utils.PromptForScenario(scenarios)
	if err != nil {
		return nil, err
	}
	return scenarioLineup(info)
}

func botLineup(names []string) (*lineup, error) {
	competitors, err := roster.DefaultRegistry.Competitors(names...)
	if err != nil {
		return nil, err
	}
	return &lineup{name: "free-for-all", competitors: competitors}, nil
}

func scenarioLineup(info *utils.ScenarioInfo) (*lineup, error) {
	competitors, err := info.Scenario.Resolve(roster.DefaultRegistry)
	if err != nil {
		return nil, err
	}
	return &lineup{name: info.Scenario.Name, competitors: competitors, scenario: info.Scenario}, nil
}
