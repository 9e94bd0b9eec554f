package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samuelfneumann/spherenav/agent"
	"github.com/samuelfneumann/spherenav/agent/heuristic"
	"github.com/samuelfneumann/spherenav/agent/random"
	"github.com/samuelfneumann/spherenav/environment/envconfig"
	"github.com/samuelfneumann/spherenav/experiment"
	"github.com/samuelfneumann/spherenav/experiment/tracker"
	"github.com/samuelfneumann/spherenav/utils/randutils"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file "+
		"overlaid on the defaults")
	debug := flag.Bool("debug", false, "enable development logging")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := envconfig.Load(*configPath)
	if err != nil {
		logger.Fatal("could not load configuration", zap.Error(err))
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal("experiment failed", zap.Error(err))
	}
}

// run runs every configured instance concurrently. Instances share no
// state, so each one runs on its own goroutine.
func run(ctx context.Context, cfg *envconfig.Config, logger *zap.Logger) error {
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return fmt.Errorf("run: creating output directory: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Instances; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return runInstance(cfg, i, logger)
		})
	}
	return g.Wait()
}

// runInstance runs a single instance of the experiment and saves its data
func runInstance(cfg *envconfig.Config, instance int,
	logger *zap.Logger) error {
	runID := uuid.NewString()
	logger = logger.With(zap.Int("instance", instance),
		zap.String("run", runID))

	env, world, _, err := cfg.Create(instance, logger)
	if err != nil {
		return fmt.Errorf("instance %d: %w", instance, err)
	}

	var policy agent.Policy
	switch cfg.Policy {
	case envconfig.Random:
		seed := randutils.Seed(cfg.InstanceSeed(instance), "policy.random")
		policy = random.NewUniform(env.ActionSpec(), seed)
	case envconfig.Manual:
		recording, err := heuristic.LoadRecording(cfg.ManualInput)
		if err != nil {
			return fmt.Errorf("instance %d: %w", instance, err)
		}
		policy = heuristic.NewManual(recording)
	default:
		policy = heuristic.NewSeek(1.0)
	}

	var trackers []tracker.Tracker
	out := cfg.Output
	if out.Outcomes != "" {
		trackers = append(trackers, tracker.NewOutcomes(runID,
			outputPath(out.Dir, out.Outcomes, instance)))
	}
	if out.Returns != "" {
		trackers = append(trackers,
			tracker.NewReturn(outputPath(out.Dir, out.Returns, instance)))
	}
	if out.Lengths != "" {
		trackers = append(trackers, tracker.NewEpisodeLength(
			outputPath(out.Dir, out.Lengths, instance)))
	}

	exp := experiment.NewOnline(env, policy, cfg.Steps, logger, trackers...)
	exp.Run()

	if err := exp.Save(); err != nil {
		return fmt.Errorf("instance %d: %w", instance, err)
	}
	if out.Render {
		path := outputPath(out.Dir, "final.png", instance)
		if err := world.Render(path); err != nil {
			return fmt.Errorf("instance %d: %w", instance, err)
		}
	}

	d := env.Diagnostics()
	fields := []zap.Field{
		zap.Int("episodes", d.Episodes),
		zap.Int("steps", d.Steps),
		zap.Int("infeasibleObstacles", d.InfeasibleObstacles),
		zap.Int("skippedObstacles", d.SkippedObstacles),
		zap.Int("infeasibleTargets", d.InfeasibleTargets),
		zap.Int("missingEntities", d.MissingEntities),
	}
	for outcome, count := range d.Outcomes {
		fields = append(fields, zap.Int(outcome.String(), count))
	}
	logger.Info("instance finished", fields...)
	return nil
}

// outputPath returns the path of an output file of an instance. The
// instance number is added before the file extension.
func outputPath(dir, name string, instance int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, instance, ext))
}
