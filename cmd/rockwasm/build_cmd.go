package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/deepnoodle-ai/rockwasm"
	"github.com/deepnoodle-ai/rockwasm/internal/sources"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Compile programs to WebAssembly binary modules",
	Long: `Compile each program to a .wasm file written next to its source, or
into the directory given with --output. With a single input, --output may
name the file itself, and "-" writes to stdout.

Arguments may be files, directories, "dir/..." for a recursive search, or
glob patterns. Every input is compiled even if an earlier one fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, args, rockwasm.OutputBinary, ".wasm")
	},
}

var watCmd = &cobra.Command{
	Use:   "wat [files...]",
	Short: "Compile programs to WebAssembly text",
	Long: `Compile each program to WebAssembly text. With a single input the text
is printed to stdout unless --output is given; with several inputs a .wat file
is written next to each source or into the --output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, args, rockwasm.OutputText, ".wat")
	},
}

func init() {
	for _, cmd := range []*cobra.Command{buildCmd, watCmd} {
		addInputFlags(cmd)
		cmd.Flags().StringP("output", "o", "", "output file or directory")
	}
	watCmd.Flags().Bool("indent", false, "break nested lists over indented lines")
	watCmd.Flags().String("indent-string", "  ", "indentation unit used with --indent")
	viper.BindPFlag("indent", watCmd.Flags().Lookup("indent"))
	viper.BindPFlag("indent-string", watCmd.Flags().Lookup("indent-string"))
}

// emit compiles every source and writes one artifact per source. Failures
// are collected so that one bad file does not hide errors in the others.
func emit(cmd *cobra.Command, args []string, output rockwasm.Output, ext string) error {
	srcs, err := getSources(cmd, args)
	if err != nil {
		return err
	}
	dest, _ := cmd.Flags().GetString("output")
	single := len(srcs) == 1
	toStdout := dest == "-" || (dest == "" && single && output == rockwasm.OutputText) ||
		(dest == "" && single && (srcs[0].Name == "<code>" || srcs[0].Name == "<stdin>"))
	if !single && dest != "" {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return err
		}
	}

	var result *multierror.Error
	for _, src := range srcs {
		artifact, err := compileOne(src, output)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		switch {
		case toStdout:
			err = writeArtifact(cmd.OutOrStdout(), artifact)
		case single && dest != "" && !isDir(dest):
			err = os.WriteFile(dest, artifact, 0o644)
		default:
			path := sources.OutputPath(src.Name, dest, ext)
			if err = os.WriteFile(path, artifact, 0o644); err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s -> %s\n", green("built"), src.Name, filepath.Clean(path))
			}
		}
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func compileOne(src sources.Source, output rockwasm.Output) ([]byte, error) {
	opts, err := compileOptions(src.Name)
	if err != nil {
		return nil, err
	}
	if output == rockwasm.OutputText {
		opts = append(opts,
			rockwasm.WithIndent(viper.GetBool("indent")),
			rockwasm.WithIndentString(viper.GetString("indent-string")))
	}
	result, err := rockwasm.Compile(context.Background(), src.Code, output, opts...)
	if err != nil {
		return nil, err
	}
	if output == rockwasm.OutputText {
		return []byte(result.Text + "\n"), nil
	}
	return result.Binary, nil
}

func writeArtifact(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
