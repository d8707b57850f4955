package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mcncl/mp2json/internal/config"
	"github.com/mcncl/mp2json/internal/errors"
	"github.com/mcncl/mp2json/internal/logging"
	"github.com/mcncl/mp2json/internal/stream"
	"github.com/rs/zerolog"
)

// CLI defines the command-line interface
var CLI struct {
	Input      string `help:"Input path of file to convert from msgpack to JSON (or - for stdin)." short:"i" default:"-"`
	Output     string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Pretty     bool   `help:"Pretty-print each JSON value over several lines." short:"p"`
	Unbuffered bool   `help:"Flush output after each message." short:"U"`
	Config     string `help:"Path to config file. If not specified, .mp2json.yml is searched for from the current directory up." short:"c" type:"path"`
	Debug      bool   `help:"Enable debug logging." short:"d"`
	Version    bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger zerolog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("mp2json"),
		kong.Description("Convert a stream of msgpack values to newline-delimited JSON"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if CLI.Version {
		fmt.Printf("mp2json version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}

	// A closed stdout must surface as EPIPE from Write instead of killing
	// the process, so the driver can stop cleanly.
	signal.Ignore(syscall.SIGPIPE)

	ctx := &Context{
		Config: cfg,
		Logger: logging.InitLogger("mp2json", os.Stderr, cfg.Dev.Debug),
	}
	if err := run(ctx); err != nil {
		exitWithError(err)
	}
}

func exitWithError(err error) {
	errColor := color.New(color.FgRed, color.Bold)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}
	_, _ = errColor.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: mp2json --help\n")
	os.Exit(1)
}

// loadConfig merges the config file, explicit or discovered, with CLI flags
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(path, CLI.Pretty, CLI.Unbuffered, CLI.Debug)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load config '%s'", path), err)
	}
	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	input, closeInput, err := openInput(CLI.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	output, closeOutput, err := openOutput(CLI.Output)
	if err != nil {
		return err
	}

	ctx.Logger.Debug().Str("input", inputName(CLI.Input)).Msg("converting")

	driver := stream.NewDriverWithConfig(ctx.Config, ctx.Logger)
	if err := driver.Run(input, output); err != nil {
		_ = closeOutput()
		return err
	}
	return closeOutput()
}

func inputName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

// openInput opens the input file, or stdin for "" and "-"
func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			// msgpack is binary; reading it from a terminal is never intended
			return nil, nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		return os.Stdin, func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", path),
				errors.ErrFileNotFound,
			)
		}
		return nil, nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", path), err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, errors.NewInputError(fmt.Sprintf("failed to get file stats for '%s'", path), err)
	}
	if stat.IsDir() {
		_ = file.Close()
		return nil, nil, errors.NewInputError(
			fmt.Sprintf("'%s' is a directory", path),
			errors.ErrInvalidFilePath,
		)
	}

	return file, func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}, nil
}

// openOutput creates the output file, or returns stdout for ""
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", path), err)
	}
	return file, func() error {
		if err := file.Close(); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to close file '%s'", path), err)
		}
		return nil
	}, nil
}
