package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yqhp/workflow-scheduler/internal/config"
	"yqhp/workflow-scheduler/internal/report"
	"yqhp/workflow-scheduler/internal/runner"
	"yqhp/workflow-scheduler/pkg/logger"
)

var (
	outDir           string
	outFormat        string
	noBalance        bool
	balanceThreshold float64
	balanceMaxMoves  int
)

// scheduleCmd runs the scheduler over one or more workflow files.
var scheduleCmd = &cobra.Command{
	Use:   "schedule [flags] <workflow-file|dir>...",
	Short: "Compute a static schedule for each workflow file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger.Init(&logger.Config{
			Level:    cfg.Logging.Level,
			Format:   cfg.Logging.Format,
			Output:   cfg.Logging.Output,
			FilePath: cfg.Logging.FilePath,
		})
		defer logger.Sync()

		files, err := runner.ExpandInputs(args)
		if err != nil {
			return err
		}

		r := runner.New(cfg)
		failed := 0
		for _, file := range files {
			rep, err := r.RunFile(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", file, err)
				failed++
				continue
			}

			if err := r.WriteReport(rep); err != nil {
				return err
			}

			if !quiet {
				writer, _ := report.For("text")
				if err := writer.Write(os.Stdout, rep); err != nil {
					return err
				}
				fmt.Println()
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d workflow(s) failed", failed, len(files))
		}
		return nil
	},
}

// loadConfig merges configuration file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().WithConfigPath(cfgFile).Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("out") {
		cfg.Report.OutputDir = outDir
	}
	if cmd.Flags().Changed("format") {
		cfg.Report.Format = outFormat
	}
	if noBalance {
		cfg.Balancer.Enabled = false
	}
	if cmd.Flags().Changed("balance-threshold") {
		cfg.Balancer.VarianceThreshold = balanceThreshold
	}
	if cmd.Flags().Changed("balance-max-moves") {
		cfg.Balancer.MaxMoves = balanceMaxMoves
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	if quiet && cfg.Logging.Level != "debug" {
		cfg.Logging.Level = "error"
	}

	return cfg, cfg.Validate()
}

func init() {
	scheduleCmd.Flags().StringVar(&outDir, "out", ".", "report output directory")
	scheduleCmd.Flags().StringVar(&outFormat, "format", "text", "report format (text, json, both)")
	scheduleCmd.Flags().BoolVar(&noBalance, "no-balance", false, "skip the load-balancing pass")
	scheduleCmd.Flags().Float64Var(&balanceThreshold, "balance-threshold", 0, "load stddev at which balancing stops")
	scheduleCmd.Flags().IntVar(&balanceMaxMoves, "balance-max-moves", 100, "maximum task moves for the balancer")

	rootCmd.AddCommand(scheduleCmd)
}
