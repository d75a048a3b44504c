package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/rockwasm"
	rwerrors "github.com/deepnoodle-ai/rockwasm/errors"
	"github.com/deepnoodle-ai/rockwasm/internal/sources"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func fatal(msg any) {
	fmt.Fprintln(os.Stderr, describe(msg))
	os.Exit(1)
}

// describe renders an error for the terminal. Compile errors get the full
// diagnostic with a source excerpt; aggregated errors are listed one by one.
func describe(msg any) string {
	err, ok := msg.(error)
	if !ok {
		return red(fmt.Sprintf("%v", msg))
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var formatted []*rwerrors.FormattedError
		var plain []string
		for _, e := range merr.Errors {
			if ce, ok := rwerrors.AsCompileError(e); ok {
				formatted = append(formatted, ce.ToFormatted())
			} else {
				plain = append(plain, red(e.Error()))
			}
		}
		out := newFormatter().FormatMultiple(formatted)
		for _, p := range plain {
			out += p + "\n"
		}
		return out
	}
	if ce, ok := rwerrors.AsCompileError(err); ok {
		return newFormatter().Format(ce.ToFormatted())
	}
	return red(err.Error())
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func useColor() bool {
	return !viper.GetBool("no-color") && isTerminal(os.Stderr)
}

func newFormatter() *rwerrors.Formatter {
	return rwerrors.NewFormatter(useColor())
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !useColor(), TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// compileOptions builds the facade options shared by every command.
func compileOptions(name string) ([]rockwasm.Option, error) {
	typeName := viper.GetString("value-type")
	vt, ok := op.ParseValueType(typeName)
	if !ok || (vt != op.I32 && vt != op.F32) {
		return nil, fmt.Errorf("invalid value type %q (expected i32 or f32)", typeName)
	}
	return []rockwasm.Option{
		rockwasm.WithLogger(newLogger()),
		rockwasm.WithFilename(name),
		rockwasm.WithValueType(vt),
		rockwasm.WithHostModule(viper.GetString("host-module")),
	}, nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "source code to compile")
	cmd.Flags().Bool("stdin", false, "read source code from stdin")
}

// getSources determines what is to be compiled. There are three
// possibilities:
// 1. --code <code>
// 2. --stdin
// 3. files, directories or patterns as arguments
func getSources(cmd *cobra.Command, args []string) ([]sources.Source, error) {
	codeFlagSet := cmd.Flags().Changed("code")
	stdinFlagSet := cmd.Flags().Changed("stdin")
	pathSupplied := len(args) > 0
	if (pathSupplied && (codeFlagSet || stdinFlagSet)) || (codeFlagSet && stdinFlagSet) {
		return nil, errors.New("multiple input sources specified")
	}
	if codeFlagSet {
		code, _ := cmd.Flags().GetString("code")
		return []sources.Source{{Name: "<code>", Code: code}}, nil
	}
	if stdinFlagSet {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return []sources.Source{{Name: "<stdin>", Code: string(data)}}, nil
	}
	if !pathSupplied {
		return nil, errors.New("no input: pass files, --code or --stdin")
	}
	files, err := sources.Discover(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files found in %v", args)
	}
	return sources.Load(files)
}

func printJSON(w io.Writer, v any) error {
	var data []byte
	var err error
	if viper.GetBool("no-color") || !isTerminal(os.Stdout) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = prettyjson.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
