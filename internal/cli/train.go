package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	hmm "github.com/bulidiriba/Hidden-Markov-Model"
	"github.com/bulidiriba/Hidden-Markov-Model/internal/modelfile"
	"github.com/bulidiriba/Hidden-Markov-Model/internal/textutil"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var obs string
	var output string
	var updateInitial bool
	var updateEmission bool

	defaults := hmm.DefaultTrainConfig()

	cmd := &cobra.Command{
		Use:   "train [symbol...]",
		Short: "Re-estimate model parameters with Baum-Welch",
		Example: `  hmm train --model weather.yaml --obs "2 3 3 2 3 2 3 2 2 3 1 3" -o trained.yaml
  hmm train --iterations 20 --update-emission 3 1 3 1 1 2
  HMM_EPSILON=1e-9 hmm train --model weather.json -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.bindFlags(cmd, "model", "iterations", "epsilon"); err != nil {
				return err
			}
			def, err := loadDefinition(c.config.GetString("model"))
			if err != nil {
				return err
			}
			seq := def.Observations
			switch {
			case len(args) > 0:
				seq = textutil.Symbols(strings.Join(args, " "))
			case obs != "":
				seq = textutil.Symbols(obs)
			}

			cfg := hmm.TrainConfig{
				MaxIterations:  c.config.GetInt("iterations"),
				Epsilon:        c.config.GetFloat64("epsilon"),
				UpdateInitial:  updateInitial,
				UpdateEmission: updateEmission,
			}
			if !c.silent {
				bar := progressbar.NewOptions(cfg.MaxIterations,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetWidth(30),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("Baum-Welch"),
					progressbar.OptionClearOnFinish(),
				)
				defer func() { _ = bar.Finish() }()
				cfg.OnIteration = func(it hmm.Iteration) {
					bar.Describe(fmt.Sprintf("Baum-Welch log L=%.6f", it.LogLikelihood))
					_ = bar.Add(1)
				}
			}

			slog.Info("Training", "observations", len(seq), "max-iterations", cfg.MaxIterations, "epsilon", cfg.Epsilon)
			start := time.Now()
			res, err := hmm.Train(def.Model, seq, &cfg)
			if err != nil {
				return err
			}
			last := res.LogLikelihoods[len(res.LogLikelihoods)-1]
			slog.Info("Training completed",
				"iterations", res.Iterations,
				"converged", res.Converged,
				"log-likelihood", last,
				"duration", time.Since(start))

			f := modelfile.FromModel(res.Model, seq)
			if output == "" {
				return modelfile.Encode(cmd.OutOrStdout(), f, modelfile.YAML)
			}
			format, err := modelfile.FormatOf(output)
			if err != nil {
				return err
			}
			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create model file: %w", err)
			}
			if err := modelfile.Encode(out, f, format); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			slog.Info("Model saved", "path", output)
			return nil
		},
	}

	cmd.Flags().String("model", "", "Path to model file (default: built-in example)")
	cmd.Flags().StringVar(&obs, "obs", "", "Training sequence, separated by spaces, commas or semicolons")
	cmd.Flags().Int("iterations", defaults.MaxIterations, "Maximum Baum-Welch iterations")
	cmd.Flags().Float64("epsilon", defaults.Epsilon, "Stop when the log-likelihood improves by less than this")
	cmd.Flags().BoolVar(&updateInitial, "update-initial", false, "Also re-estimate the initial distribution")
	cmd.Flags().BoolVar(&updateEmission, "update-emission", false, "Also re-estimate the emission matrix")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the trained model to this .json/.yaml file instead of stdout")
	return cmd
}
