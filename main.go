package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/mcncl/jsonsheet/internal/config"
	"github.com/mcncl/jsonsheet/internal/converter"
	"github.com/mcncl/jsonsheet/internal/errors"
	"github.com/mcncl/jsonsheet/internal/logging"
	"github.com/mcncl/jsonsheet/internal/naming"
)

// CLI defines the command-line interface
var CLI struct {
	Files      []string `arg:"" optional:"" help:"JSON files to convert. If not specified, every .json file in the input directory is converted."`
	Config     string   `help:"Path to a YAML or INI config file. If not specified, searches for jsonsheet.yml or config.ini." short:"c" type:"path"`
	InputDir   string   `help:"Directory containing the JSON files." short:"i" type:"path"`
	OutputDir  string   `help:"Directory for the generated workbooks." short:"o" type:"path"`
	Chunk      int      `help:"Number of files converted per batch."`
	Sheet      string   `help:"Name of the worksheet in each workbook." short:"s"`
	Timezone   string   `help:"Timezone used to stamp output file names." short:"z"`
	Headers    string   `help:"Column policy: 'first' uses the first record's keys, 'union' all keys."`
	HeaderCase string   `help:"Header case style: none, snake, camel or lower_camel."`
	LogDir     string   `help:"Directory for log files." type:"path"`
	NoProgress bool     `help:"Disable the progress bar."`
	Debug      bool     `help:"Enable debug logging." short:"d"`
	Version    bool     `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Clock  clockwork.Clock
	Fs     afero.Fs
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonsheet"),
		kong.Description("Convert batches of JSON files into Excel workbooks"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsonsheet version %s\n", Version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, &Context{
		Debug:  CLI.Debug,
		Clock:  clockwork.NewRealClock(),
		Fs:     afero.NewOsFs(),
		Stderr: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonsheet --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx context.Context, rc *Context) error {
	// 1. Resolve configuration: CLI > config file > defaults
	cfg, err := loadConfig(rc)
	if err != nil {
		return err
	}

	// 2. Open the log file for this run
	logFile, err := openLogFile(rc, cfg.Logging.Dir)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger := logging.New(rc.Stderr, logFile, cfg.Logging.Debug)
	defer func() { _ = logger.Sync() }()

	// 3. Convert
	conv, err := converter.New(rc.Fs, cfg, logger, rc.Clock, rc.Stderr)
	if err != nil {
		return err
	}

	var summary converter.Summary
	if len(CLI.Files) > 0 {
		summary, err = conv.Run(ctx, CLI.Files)
	} else {
		summary, err = conv.RunDir(ctx)
	}
	if err != nil {
		logger.Error(errors.UserFriendlyError(err))
		return err
	}

	// 4. Report
	fmt.Fprintf(rc.Stderr, "Converted %d of %d file(s) into %s\n", summary.Succeeded, summary.Total, cfg.Files.OutputDir)
	for _, f := range summary.Failures {
		fmt.Fprintf(rc.Stderr, "  %s: %s\n", f.Path, errors.UserFriendlyError(f.Err))
	}
	return nil
}

func loadConfig(rc *Context) (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.Overrides{
		InputDir:   CLI.InputDir,
		OutputDir:  CLI.OutputDir,
		Chunk:      CLI.Chunk,
		SheetName:  CLI.Sheet,
		Timezone:   CLI.Timezone,
		Policy:     CLI.Headers,
		Case:       CLI.HeaderCase,
		LogDir:     CLI.LogDir,
		Debug:      rc.Debug,
		NoProgress: CLI.NoProgress,
	})
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

func openLogFile(rc *Context, dir string) (afero.File, error) {
	if err := rc.Fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("cannot create log directory '%s'", dir), err)
	}
	path, err := naming.LogFilePath(rc.Clock, dir)
	if err != nil {
		return nil, errors.NewConfigError("cannot name log file", err)
	}
	f, err := rc.Fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("cannot open log file '%s'", path), err)
	}
	return f, nil
}
