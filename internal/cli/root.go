// Package cli implements the scrub command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/scrub/internal/config"
	"github.com/llehouerou/scrub/internal/errmsg"
	"github.com/llehouerou/scrub/internal/history"
	"github.com/llehouerou/scrub/internal/logging"
	"github.com/llehouerou/scrub/internal/pipeline"
)

// EngineFactory creates a pipeline engine for a backend.
type EngineFactory func(cfg config.EngineConfig, log logrus.FieldLogger) (pipeline.Engine, error)

// Options wire the command tree to its environment.
type Options struct {
	// Engines by backend name. The mock backend is always available.
	Engines map[string]EngineFactory
	Out     io.Writer
	Err     io.Writer
	Fs      afero.Fs
	// OpenHistory overrides the history store, for tests.
	OpenHistory func(cfg *config.Config) (*history.Store, error)
}

// env is the state shared by subcommands, set up before each run.
type env struct {
	opts Options

	configPath string
	logLevel   string
	engineName string

	cfg      *config.Config
	log      *logrus.Logger
	closeLog func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Engines == nil {
		opts.Engines = map[string]EngineFactory{}
	}
	if _, ok := opts.Engines[config.BackendMock]; !ok {
		opts.Engines[config.BackendMock] = newMockEngine
	}
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:           "scrub",
		Short:         "Frame-accurate media scrubbing and probing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if e.closeLog != nil {
				return e.closeLog()
			}
			return nil
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "Read this config file after the default ones")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&e.engineName, "engine", "e", "", "Engine backend (mpv or mock)")
	_ = root.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendMPV, config.BackendMock}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newPlayCmd(e), newProbeCmd(e), newHistoryCmd(e))
	return root
}

// Execute runs the command line and exits non-zero on error.
func Execute(engines map[string]EngineFactory) {
	if err := NewRootCmd(Options{Engines: engines}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}

// setup loads the config and logger. logFile is used when the config
// names none; empty means the error writer.
func (e *env) setup(logFile string) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, err)
	}
	e.cfg = cfg

	level := cfg.GetLogLevel()
	if e.logLevel != "" {
		level = e.logLevel
	}
	file := cfg.Log.File
	if file == "" {
		file = logFile
	}
	log, closeLog, err := logging.Setup(e.opts.Fs, logging.Options{
		Level:  level,
		File:   file,
		JSON:   cfg.Log.JSON,
		Output: e.opts.Err,
	})
	if err != nil {
		return errmsg.Wrap(errmsg.OpSetupLog, err)
	}
	e.log, e.closeLog = log, closeLog
	return nil
}

func (e *env) backend() string {
	if e.engineName != "" {
		return strings.ToLower(e.engineName)
	}
	return e.cfg.GetEngineConfig().Backend
}

func (e *env) newEngine() (pipeline.Engine, error) {
	name := e.backend()
	if err := config.ValidateBackend(name); err != nil {
		return nil, err
	}
	factory, ok := e.opts.Engines[name]
	if !ok {
		return nil, fmt.Errorf("engine backend %q is not built into this binary", name)
	}
	engine, err := factory(e.cfg.GetEngineConfig(), e.log)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpStartEngine, err)
	}
	return engine, nil
}

// openHistory returns nil when history is disabled.
func (e *env) openHistory() (*history.Store, error) {
	if !e.cfg.HistoryEnabled() {
		return nil, nil //nolint:nilnil // disabled is not an error
	}
	if e.opts.OpenHistory != nil {
		return e.opts.OpenHistory(e.cfg)
	}
	if e.cfg.History.Path != "" {
		return history.OpenAt(e.cfg.History.Path)
	}
	return history.Open()
}

// defaultLogFile keeps logs off the terminal while the TUI owns it.
func defaultLogFile() string {
	path, err := xdg.StateFile("scrub/scrub.log")
	if err != nil {
		return ""
	}
	return path
}

func newMockEngine(_ config.EngineConfig, _ logrus.FieldLogger) (pipeline.Engine, error) {
	return pipeline.NewMock(), nil
}
