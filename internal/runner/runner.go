// Package runner ties one scheduling run together: parse the workflow
// file, run the Min-Min pass and the load balancer, compute metrics
// and assemble the report. Runs are independent and stateless; nothing
// carries over between files.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"yqhp/workflow-scheduler/internal/balancer"
	"yqhp/workflow-scheduler/internal/config"
	"yqhp/workflow-scheduler/internal/metrics"
	"yqhp/workflow-scheduler/internal/parser"
	"yqhp/workflow-scheduler/internal/report"
	"yqhp/workflow-scheduler/internal/scheduler"
	"yqhp/workflow-scheduler/pkg/logger"
	"yqhp/workflow-scheduler/pkg/types"
)

// Runner executes scheduling runs according to one configuration.
type Runner struct {
	cfg *config.Config
}

// New creates a runner.
func New(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// RunFile schedules the workflow in a single file and returns the
// report. The empirical time covers the scheduling computation only,
// not parsing or report writing.
func (r *Runner) RunFile(path string) (*types.Report, error) {
	w, err := parser.ForFile(path).ParseFile(path)
	if err != nil {
		return nil, err
	}

	logger.Info("scheduling workflow",
		zap.String("workflow", w.Name),
		zap.Int("tasks", len(w.Tasks)),
		zap.Int("vms", len(w.VMs())))

	started := time.Now()

	plan, err := scheduler.NewMinMinScheduler(r.cfg.Scheduler.TieBreak).Schedule(w)
	if err != nil {
		return nil, err
	}

	plan, moves := balancer.NewLoadBalancer(r.cfg.Balancer).Balance(w, plan)
	elapsed := time.Since(started)

	m := metrics.Calculate(w, plan)
	rep := report.Build(w, plan, m, moves, elapsed)

	logger.Info("workflow scheduled",
		zap.String("workflow", w.Name),
		zap.Float64("makespan", m.Makespan),
		zap.Float64("speedup", m.Speedup),
		zap.Int("balancer_moves", moves),
		zap.Duration("elapsed", elapsed))

	return rep, nil
}

// WriteReport writes the report into the output directory in the
// configured format ("both" writes text and JSON).
func (r *Runner) WriteReport(rep *types.Report) error {
	formats := []string{r.cfg.Report.Format}
	if r.cfg.Report.Format == "both" {
		formats = []string{"text", "json"}
	}

	if err := os.MkdirAll(r.cfg.Report.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, format := range formats {
		writer, err := report.For(format)
		if err != nil {
			return err
		}

		// The workflow name is free-form input; strip any path components
		// so the report cannot escape the output directory.
		name := filepath.Base(rep.Workflow)
		path := filepath.Join(r.cfg.Report.OutputDir, name+"_output"+writer.Ext())
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		if err := writer.Write(f, rep); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		logger.Info("report written", zap.String("path", path), zap.String("format", writer.Description()))
	}
	return nil
}

// ExpandInputs resolves the CLI arguments into workflow files. A
// directory argument expands to its .json, .yaml and .yml entries.
func ExpandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access input %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".json", ".yaml", ".yml":
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no workflow files found")
	}
	return files, nil
}
