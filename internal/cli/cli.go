// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spotstack/launchgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("launchgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
launchgo - launch assembler and supervisor for the Spot driver stack.

Usage:
  launchgo [options] DESCRIPTION [NAME:=VALUE ...]

Arguments:
  DESCRIPTION
    Name of a built-in launch description (e.g. spot_driver) or a path
    to a .launch.hcl file.
  NAME:=VALUE
    Launch argument overrides, e.g. config_file:=/etc/spot/driver.yaml.

Options:
`)
		flagSet.PrintDefaults()
	}

	dryRunFlag := flagSet.Bool("dry-run", false, "Resolve and print the launch plan without starting processes.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	var prefixPaths []string
	flagSet.Func("prefix-path", "Extra install prefix root, searched before the environment's roots. Repeatable.", func(v string) error {
		prefixPaths = append(prefixPaths, v)
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No description provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	description := flagSet.Arg(0)

	overrides := make(map[string]string)
	for _, arg := range flagSet.Args()[1:] {
		name, value, found := strings.Cut(arg, ":=")
		if !found || name == "" {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid launch argument %q: expected NAME:=VALUE", arg)}
		}
		overrides[name] = value
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Description: description,
		Overrides:   overrides,
		PrefixPaths: prefixPaths,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		DryRun:      *dryRunFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "description", description, "overrides", len(overrides))
	return config, false, nil
}
