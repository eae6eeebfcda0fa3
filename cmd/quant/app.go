package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sambeau/quant/config"
	"github.com/sambeau/quant/pkg/quant/catalog"
	"github.com/sambeau/quant/pkg/quant/evaluator"
	"github.com/sambeau/quant/pkg/quant/macro"
	"github.com/sambeau/quant/pkg/quant/quant"
)

// app is the engine and logging set up from a config file
type app struct {
	cfg    *config.Config
	engine *evaluator.Engine
	log    *quant.LeveledLogger
	file   *os.File // log file, if logging.output names one
}

func newApp(configPath string, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.LoadOrDefault(configPath, os.Getenv)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	var out quant.Logger
	switch cfg.Logging.Output {
	case "stdout":
		out = quant.WriterLogger(stdout)
	case "", "stderr":
		out = quant.WriterLogger(stderr)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.Output), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Logging.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.file = f
		out = quant.WriterLogger(f)
	}
	if a.log, err = quant.NewLeveledLogger(out, cfg.Logging.Level); err != nil {
		a.Close()
		return nil, err
	}

	for _, w := range config.Warnings(cfg) {
		a.log.At("warn").LogLine("warning:", w)
	}

	cat, err := a.loadCatalog()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.engine = evaluator.New(cat,
		evaluator.WithLogger(a.log.At("debug")),
		evaluator.WithTrace(a.log.Enabled("debug")),
	)
	return a, nil
}

// loadCatalog returns the built-in catalog extended by the configured files.
// Missing files are skipped; config.Warnings has already reported them.
func (a *app) loadCatalog() (*catalog.Catalog, error) {
	var files []string
	for _, f := range a.cfg.Catalog.Files {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return catalog.Default(), nil
	}

	cat := catalog.Builtin()
	for _, f := range files {
		if err := cat.LoadFile(f); err != nil {
			return nil, err
		}
		a.log.At("debug").LogLine("loaded catalog", f)
	}
	return cat, nil
}

// interpreter returns a macro interpreter using the configured format and
// line limit.
func (a *app) interpreter(opts ...macro.Option) *macro.Interpreter {
	base := []macro.Option{
		macro.WithFormat(a.cfg.Format),
		macro.WithMaxLines(a.cfg.Macro.MaxLines),
	}
	return macro.New(a.engine, append(base, opts...)...)
}

// printReport writes the result to stdout and diagnostics to stderr,
// returning the exit code.
func (a *app) printReport(rep *evaluator.Report, stdout, stderr io.Writer) int {
	if rep.Status == evaluator.StatusError {
		fmt.Fprintln(stderr, "Error: "+rep.Messages[0])
		return 1
	}
	for _, msg := range rep.Messages {
		fmt.Fprintln(stderr, "Warning: "+msg)
	}
	fmt.Fprintln(stdout, a.cfg.Format.Quantity(rep.Result.Value, rep.Result.Label))
	return 0
}

func (a *app) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}
