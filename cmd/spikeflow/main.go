package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spikeflow-ml/spikeflow/internal/config"
	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/logging"
	"github.com/spikeflow-ml/spikeflow/internal/record"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "spikeflow",
		Short: "Spikeflow - compose and run spiking neural networks",
		Long: `spikeflow builds spiking neural network models from YAML topology
files and runs them through simulated time.

Each step feeds one input frame into the network, advances every layer
and connection by one timestep, and reports the computed signals.`,
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (error, warn, info, debug)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("spikeflow version %s\n", version)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <topology.yaml>",
		Short: "Validate a topology file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if _, err := cfg.Build(); err != nil {
				return err
			}
			fmt.Printf("%s: %d layers, %d connections, %d learning rules\n",
				args[0], len(cfg.Layers), len(cfg.Connections), len(cfg.LearningRules))
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a network from a topology file",
		Long: `Build a model from a YAML topology and drive it with uniform random
input for a number of steps.

Example:
  spikeflow run --config model.yaml --steps 100 --record trace.db --learn-every 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			steps, _ := cmd.Flags().GetInt("steps")
			recordPath, _ := cmd.Flags().GetString("record")
			learnEvery, _ := cmd.Flags().GetInt("learn-every")
			rate, _ := cmd.Flags().GetFloat32("rate")
			level, _ := cmd.Flags().GetString("log-level")

			if steps <= 0 {
				return fmt.Errorf("--steps must be positive, got %d", steps)
			}

			logger := logging.New(level, os.Stderr)
			ctx := context.Background()

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if rate > 0 {
				for i := range cfg.LearningRules {
					cfg.LearningRules[i].Rate = rate
				}
			}
			model, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("build model: %w", err)
			}
			logger.Info("model compiled",
				"layers", len(cfg.Layers),
				"connections", len(cfg.Connections),
				"rules", len(cfg.LearningRules))

			var rec *record.Recorder
			if recordPath != "" {
				rec, err = record.Open(ctx, recordPath)
				if err != nil {
					return fmt.Errorf("open recorder: %w", err)
				}
				defer rec.Close()
			}

			shape := model.InputShape()
			source := snn.Generate(steps, func(step int) *tensor.Tensor {
				return tensor.Rand(shape)
			})

			var totalSpikes float32
			callback := func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
				var spikes float32
				for _, l := range cfg.Layers {
					if out, ok := results[l.Name]["output"]; ok {
						spikes += out.Sum()
					}
				}
				totalSpikes += spikes
				logger.Debug("step complete", "step", step, "spikes", spikes)

				if rec != nil {
					if err := rec.RecordStep(ctx, step, results); err != nil {
						return fmt.Errorf("record step %d: %w", step, err)
					}
				}
				if learnEvery > 0 && (step+1)%learnEvery == 0 {
					updates, err := model.Learn(sess)
					if err != nil {
						return fmt.Errorf("learn at step %d: %w", step, err)
					}
					logger.Debug("applied learning rules", "step", step, "rules", len(updates))
				}
				return nil
			}

			if err := model.RunTime(source, callback); err != nil {
				return err
			}

			logger.Info("run complete", "steps", steps, "total_spikes", totalSpikes)
			if recordPath != "" {
				logger.Info("trace recorded", "path", recordPath)
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "Topology file (required)")
	cmd.Flags().Int("steps", 100, "Number of timesteps to run")
	cmd.Flags().String("record", "", "Record per-step signals to this SQLite file")
	cmd.Flags().Int("learn-every", 0, "Apply learning rules every N steps (0 = never)")
	cmd.Flags().Float32("rate", 0, "Override the learning rate of every rule (0 = use topology values)")
	cmd.MarkFlagRequired("config")

	return cmd
}
