package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"factgate/internal/linkcheck"
	"factgate/internal/model"
	"factgate/internal/policy"
	"factgate/internal/source"
	"factgate/internal/stage"
	"factgate/internal/validation"
)

var (
	outPath          string
	batchSize        int
	probeDelay       time.Duration
	batchDelay       time.Duration
	keepStatuses     []string
	strictMode       bool
	dropInaccessible bool
	checkLinks       bool
	respectRobots    bool
	probeTimeout     time.Duration
	userAgent        string
	baseURL          string
	modelName        string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input.json>",
	Short: "Validate a raw feed artifact and write the validated artifact",
	Long: `Run executes the full fact-check stage over a raw feed artifact:
- Probe every item's origin post for liveness
- Drop items whose origin post is gone (404/403)
- Validate remaining items in batches against the search service
- Reconcile returned citations into deduplicated external sources
- Apply verification acceptance criteria
- Keep only items whose final status is in the allow-list

Requires PERPLEXITY_API_KEY in the environment.

Example:
  factgate run out/1_raw_feed.json
  factgate run out/1_raw_feed.json --keep verified,unverifiable
  factgate run out/1_raw_feed.json --batch-size 3 --batch-delay 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	defaults := model.DefaultConfig()

	runCmd.Flags().StringVar(&outPath, "json", "", "output artifact path (default: 2_validated_facts.json next to input)")
	runCmd.Flags().IntVar(&batchSize, "batch-size", defaults.Validation.BatchSize, "items per validation batch")
	runCmd.Flags().DurationVar(&probeDelay, "probe-delay", defaults.Stage.ProbeDelay, "delay between origin link probes")
	runCmd.Flags().DurationVar(&batchDelay, "batch-delay", defaults.Stage.BatchDelay, "delay between validation batches")
	runCmd.Flags().StringSliceVar(&keepStatuses, "keep", defaults.Stage.KeepStatuses, "final statuses to keep")
	runCmd.Flags().BoolVar(&strictMode, "strict", defaults.Policy.StrictVerification, "require at least one external source for verified items")
	runCmd.Flags().BoolVar(&dropInaccessible, "drop-inaccessible", defaults.Stage.DropInaccessible, "drop items whose origin post is 404/403")
	runCmd.Flags().BoolVar(&checkLinks, "check-links", defaults.Stage.CheckOriginLinks, "probe origin post liveness before validation")
	runCmd.Flags().BoolVar(&respectRobots, "robots", defaults.HTTP.RespectRobots, "honor robots.txt before probing origin posts")
	runCmd.Flags().DurationVar(&probeTimeout, "timeout", defaults.HTTP.Timeout, "origin link probe timeout")
	runCmd.Flags().StringVar(&userAgent, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent for origin link probes")
	runCmd.Flags().StringVar(&baseURL, "base-url", defaults.Validation.BaseURL, "validation service base URL (OpenAI-compatible)")
	runCmd.Flags().StringVar(&modelName, "model", defaults.Validation.Model, "validation service model name")
}

func runRun(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg := buildConfig(cmd.Flags())
	cfg.Validation.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	if cfg.Validation.APIKey == "" {
		return fmt.Errorf("PERPLEXITY_API_KEY environment variable not set")
	}

	records, err := stage.LoadRecords(inputPath)
	if err != nil {
		return err
	}

	log := slog.Default()
	log.Info("loaded input artifact", "path", inputPath, "count", len(records))

	origin := source.NewDomainSet(cfg.Origin.Domains)
	reconciler := source.NewReconciler(origin)

	svc, err := validation.NewChatService(cfg.Validation)
	if err != nil {
		return err
	}

	s := stage.New(
		linkcheck.NewChecker(cfg.HTTP, origin),
		validation.NewBatchClient(svc, reconciler, log),
		policy.New(cfg.Policy, reconciler),
		cfg.Stage,
		cfg.Validation.BatchSize,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	final, err := s.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("stage run failed: %w", err)
	}

	output := outPath
	if output == "" {
		output = stage.OutputPath(inputPath)
	}
	if err := stage.SaveRecords(output, final); err != nil {
		return err
	}

	log.Info("wrote validated artifact", "path", output, "count", len(final))
	return nil
}

// buildConfig layers defaults, the config file, and CLI flags
func buildConfig(flags *pflag.FlagSet) *model.Config {
	cfg := model.DefaultConfig()

	if viper.ConfigFileUsed() != "" {
		if err := viper.Unmarshal(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid config file ignored: %v\n", err)
		}
	}

	applyFlagOverrides(cfg, flags)
	return cfg
}

// applyFlagOverrides layers explicitly passed flags over the config, so an
// untouched flag never clobbers a config-file setting with its default
func applyFlagOverrides(cfg *model.Config, flags *pflag.FlagSet) {
	if flags.Changed("batch-size") {
		cfg.Validation.BatchSize = batchSize
	}
	if flags.Changed("base-url") {
		cfg.Validation.BaseURL = baseURL
	}
	if flags.Changed("model") {
		cfg.Validation.Model = modelName
	}
	if flags.Changed("probe-delay") {
		cfg.Stage.ProbeDelay = probeDelay
	}
	if flags.Changed("batch-delay") {
		cfg.Stage.BatchDelay = batchDelay
	}
	if flags.Changed("keep") {
		cfg.Stage.KeepStatuses = keepStatuses
	}
	if flags.Changed("drop-inaccessible") {
		cfg.Stage.DropInaccessible = dropInaccessible
	}
	if flags.Changed("check-links") {
		cfg.Stage.CheckOriginLinks = checkLinks
	}
	if flags.Changed("strict") {
		cfg.Policy.StrictVerification = strictMode
	}
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = probeTimeout
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("robots") {
		cfg.HTTP.RespectRobots = respectRobots
	}
}
