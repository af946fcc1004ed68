package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/output"
	"github.com/OpenTraceLab/OpenTraceBOM/internal/watch"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom/render"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// reportJob describes one netlist-to-file run shared by md and resistors
type reportJob struct {
	input       string
	output      string
	defaultName string // used with --todocs when no output is given
	toDocs      bool
	build       func(net *netlist.Netlist, comps []*netlist.Component) *bom.Report
	renderer    render.Renderer
}

// run generates the report once and, with watchInput, again on every
// change of the input until interrupted
func (j *reportJob) run(ctx context.Context, watchInput bool) error {
	if j.toDocs && j.output == "" {
		j.output = j.defaultName
	}

	if err := j.generate(); err != nil {
		return err
	}
	if !watchInput {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(watch.DefaultConfig(), logger, watch.PatternFor(j.input))
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching for changes", zap.String("input", j.input))
	return w.Run(ctx, func(paths []string) {
		logger.Debug("regenerating", zap.Strings("changed", paths))
		// A netlist caught mid-write fails to parse; the next write retries
		if err := j.generate(); err != nil {
			logger.Warn("regeneration failed", zap.Error(err))
		}
	})
}

func (j *reportJob) generate() error {
	net, err := netlist.LoadFile(j.input)
	if err != nil {
		return fmt.Errorf("failed to load netlist: %w", err)
	}

	filter, err := cfg.NetlistFilter()
	if err != nil {
		return err
	}
	comps := net.InterestingComponents(filter)
	report := j.build(net, comps)

	logger.Debug("built report",
		zap.String("input", j.input),
		zap.String("format", string(net.Format)),
		zap.Int("components", len(net.Components)),
		zap.Int("interesting", len(comps)),
		zap.Int("rows", len(report.Rows)))

	dest := output.Open(j.output, j.toDocs, logger)
	defer dest.Close()

	if err := j.renderer.Render(dest, report); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest.Name, err)
	}
	return nil
}
