package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/integrii/flaggy"

	"lifegrid/src/config"
	"lifegrid/src/logging"
	"lifegrid/src/universe"
	"lifegrid/src/view"
)

const headlessMaxSteps = 1000

//EnvOptions are the command line options not stored in the config file
type EnvOptions struct {
	configPath string
	randomData bool
	template   string
	scale      int
	every      int
	showGrid   bool
	noColors   bool
	mode       string
}

//overrides are the command line values replacing the config file ones, zero values mean unset
type overrides struct {
	rows        int
	cols        int
	interval    time.Duration
	maxSteps    int
	probability float64
	seed        int64
	logLevel    string
	logFile     string
}

func main() {
	eo, ov := initOptions()
	if err := run(eo, ov); err != nil {
		fmt.Fprintln(os.Stderr, "lifegrid:", err)
		os.Exit(1)
	}
}

func initOptions() (eo *EnvOptions, ov *overrides) {
	eo = &EnvOptions{scale: 10, every: 10, mode: "tui"}
	ov = &overrides{probability: -1}

	flaggy.SetName("lifegrid")
	flaggy.SetDescription("\"The Life\" game simulation on a fixed-size grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	flaggy.String(&eo.configPath, "c", "config", "Path to the YAML config file (default $"+config.DefaultConfigEnv+")")
	flaggy.Int(&ov.cols, "x", "cols", "Width of a simulation field")
	flaggy.Int(&ov.rows, "y", "rows", "Height of a simulation field")
	flaggy.Duration(&ov.interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&ov.maxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Float64(&ov.probability, "p", "probability", "Chance of a cell to be live when settled with random data")
	flaggy.Int64(&ov.seed, "", "seed", "Seed of the random data, 0 picks a random one")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.template, "t", "template", "Settle with the named pattern")
	flaggy.String(&ov.logLevel, "l", "log-level", "Log level [info|debug|trace|warn|error]")
	flaggy.String(&ov.logFile, "", "log-file", "Log file of the interactive modes")

	tui := flaggy.NewSubcommand("tui")
	tui.Description = "Interactive terminal mode (default)"
	flaggy.AttachSubcommand(tui, 1)

	gui := flaggy.NewSubcommand("gui")
	gui.Description = "Window mode (requires the 'ebiten' build tag)"
	gui.Int(&eo.scale, "", "scale", "Pixels per cell")
	flaggy.AttachSubcommand(gui, 1)

	headless := flaggy.NewSubcommand("run")
	headless.Description = "Run without interaction and print the progress"
	headless.Int(&eo.every, "e", "every", "Print the progress every N generations")
	headless.Bool(&eo.showGrid, "g", "grid", "Print the final grid")
	headless.Bool(&eo.noColors, "", "no-colors", "Disable colored output")
	flaggy.AttachSubcommand(headless, 1)

	flaggy.Parse()

	switch {
	case gui.Used:
		eo.mode = "gui"
	case headless.Used:
		eo.mode = "run"
	}
	return
}

//loadConfig applies the config file and the command line overrides to the defaults
func loadConfig(eo *EnvOptions, ov *overrides) (*config.Config, error) {
	cfg, err := config.Load(eo.configPath)
	if err != nil {
		return nil, err
	}
	if ov.rows != 0 {
		cfg.Rows = ov.rows
	}
	if ov.cols != 0 {
		cfg.Cols = ov.cols
	}
	if ov.interval != 0 {
		cfg.Interval = ov.interval
	}
	if ov.maxSteps != 0 {
		cfg.MaxSteps = ov.maxSteps
	}
	if ov.probability >= 0 {
		cfg.LiveProbability = ov.probability
	}
	if ov.seed != 0 {
		cfg.Seed = ov.seed
	}
	if ov.logLevel != "" {
		cfg.Logging.Level = ov.logLevel
	}
	if ov.logFile != "" {
		cfg.Logging.File = ov.logFile
	}
	if eo.mode == "run" && cfg.MaxSteps == 0 {
		cfg.MaxSteps = headlessMaxSteps
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(eo *EnvOptions, ov *overrides) error {
	cfg, err := loadConfig(eo, ov)
	if err != nil {
		return err
	}

	//the interactive modes own the terminal, their log goes to a file
	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	if eo.mode != "run" {
		var closeLog func() error
		logger, closeLog, err = logging.NewFileLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	var stateCh chan universe.Status
	if eo.mode == "run" {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u := universe.NewBaseUniverse(cfg.UniverseOptions(), stateCh, universe.WithLogger(logger))
	defer u.Close()
	for _, t := range cfg.Templates() {
		u.AddTemplate(t)
	}

	if eo.randomData {
		u.SettleWithRandomData()
	} else if eo.template != "" {
		if err := u.SettleTemplate(eo.template); err != nil {
			return fmt.Errorf("template %q: %w", eo.template, err)
		}
	}
	logger.Info("universe created", "rows", cfg.Rows, "cols", cfg.Cols, "mode", eo.mode)

	switch eo.mode {
	case "gui":
		w := view.NewWindowUI(eo.scale, logger)
		u.RegisterViewer(w)
		return w.Start()
	case "run":
		return runHeadless(eo, u, logger)
	default:
		v, err := view.NewConsoleUI(logger)
		if err != nil {
			return err
		}
		u.RegisterViewer(v)
		return v.Start()
	}
}

//runHeadless runs the simulation until max steps are reached or the process is interrupted
func runHeadless(eo *EnvOptions, u universe.Universe, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := view.NewConsoleOut(os.Stdout, eo.every, !eo.noColors)
	c.ShowGrid(eo.showGrid)
	u.RegisterViewer(c)
	_ = c.Start()

	stateCh := u.StateCh()
	u.Run()
loop:
	for {
		select {
		case st := <-stateCh:
			if !st.Running && st.Generation > 0 {
				break loop
			}
		case <-ctx.Done():
			logger.Info("interrupted")
			break loop
		}
	}
	c.Finish()
	return nil
}
