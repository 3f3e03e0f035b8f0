package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	hmm "github.com/bulidiriba/Hidden-Markov-Model"
	"github.com/bulidiriba/Hidden-Markov-Model/internal/textutil"
)

func (c *CLI) newRunCommand() *cobra.Command {
	var obs string
	var obsFile string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [symbol...]",
		Short: "Run forward, Viterbi, backward and one Baum-Welch step on observation sequences",
		Example: `  # Built-in Hot/Cold example
  hmm run

  # Observations as arguments or a list
  hmm run 3 1 3
  hmm run --obs "3,1,3"

  # Custom model, one sequence per line from a file or stdin
  hmm run --model weather.yaml --obs-file days.txt
  cat days.txt | hmm run --model weather.yaml

  # JSON report
  hmm run --json -s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.bindFlags(cmd, "model"); err != nil {
				return err
			}
			def, err := loadDefinition(c.config.GetString("model"))
			if err != nil {
				return err
			}
			sequences, err := readSequences(def, args, obs, obsFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, seq := range sequences {
				start := time.Now()
				report, err := hmm.Analyze(def.Model, seq)
				if err != nil {
					return fmt.Errorf("sequence %d: %w", i+1, err)
				}
				slog.Debug("Sequence analyzed", "sequence", i+1, "length", len(seq), "duration", time.Since(start))

				if asJSON {
					data, err := json.MarshalIndent(report, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
					continue
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				printReport(out, report)
			}
			return nil
		},
	}

	cmd.Flags().String("model", "", "Path to model file (default: built-in example)")
	cmd.Flags().StringVar(&obs, "obs", "", "Observation sequence, separated by spaces, commas or semicolons")
	cmd.Flags().StringVar(&obsFile, "obs-file", "", "File with one observation sequence per line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

// readSequences picks observation sequences from, in order: arguments, --obs,
// --obs-file, piped stdin, the model file.
func readSequences(def *hmm.Definition, args []string, obs, obsFile string) ([][]string, error) {
	switch {
	case len(args) > 0:
		return [][]string{textutil.Symbols(strings.Join(args, " "))}, nil
	case obs != "":
		return [][]string{textutil.Symbols(obs)}, nil
	case obsFile != "":
		data, err := os.ReadFile(obsFile)
		if err != nil {
			return nil, fmt.Errorf("read observations: %w", err)
		}
		return nonEmpty(textutil.Lines(string(data)), obsFile)
	case !isStdinTerminal():
		slog.Debug("Reading observations from stdin")
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if lines := textutil.Lines(string(data)); len(lines) > 0 {
			return lines, nil
		}
	}
	if len(def.Observations) == 0 {
		return nil, fmt.Errorf("no observations given and the model file has none")
	}
	return [][]string{def.Observations}, nil
}

func nonEmpty(lines [][]string, source string) ([][]string, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s contains no observation sequences", source)
	}
	return lines, nil
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func loadDefinition(modelPath string) (*hmm.Definition, error) {
	if modelPath == "" {
		slog.Debug("Using built-in example model")
		return hmm.Example(), nil
	}
	slog.Debug("Loading model", "path", modelPath)
	return hmm.Load(modelPath)
}

func printReport(w io.Writer, r *hmm.Report) {
	fmt.Fprintf(w, "States:       %s\n", strings.Join(r.States, " "))
	fmt.Fprintf(w, "Observations: %s\n", strings.Join(r.Observations, " "))
	fmt.Fprintf(w, "Likelihood:   %g\n", r.Likelihood)
	fmt.Fprintf(w, "Step best:    %s\n", strings.Join(r.StepBest, " "))
	fmt.Fprintf(w, "Path:         %s (p=%g)\n", strings.Join(r.Path, " "), r.PathProbability)
	if r.EMError != "" {
		fmt.Fprintf(w, "Baum-Welch:   skipped, %s\n", r.EMError)
	}

	printTable(w, "Forward", r.Forward)
	printTable(w, "Viterbi", r.Viterbi)
	printTable(w, "Backward", r.Backward)
	if r.Transition != nil {
		printTable(w, "Re-estimated transition", r.Transition)
	}
}

func printTable(w io.Writer, title string, rows [][]float64) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	d := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		d.SetRow(i, row)
	}
	fmt.Fprintf(w, "%s:\n    %v\n", title, mat.Formatted(d, mat.Prefix("    "), mat.Squeeze()))
}
