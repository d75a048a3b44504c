package main

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/rockwasm/ast"
	"github.com/deepnoodle-ai/rockwasm/parser"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var astCmd = &cobra.Command{
	Use:   "ast [files...]",
	Short: "Display the syntax tree of programs",
	RunE:  astHandler,
}

func init() {
	addInputFlags(astCmd)
	astCmd.Flags().StringP("output", "o", "json", "output format (json or text)")
	astCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp))
}

func astHandler(cmd *cobra.Command, args []string) error {
	srcs, err := getSources(cmd, args)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	if format != "json" && format != "text" {
		return fmt.Errorf("unknown output format: %s", format)
	}

	var result *multierror.Error
	for _, src := range srcs {
		program, err := parser.Parse(context.Background(), src.Code, parser.WithFilename(src.Name))
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if len(srcs) > 1 {
			fmt.Fprintln(cmd.OutOrStdout(), faint("# "+src.Name))
		}
		if format == "text" {
			fmt.Fprint(cmd.OutOrStdout(), program.String())
			continue
		}
		if err := printJSON(cmd.OutOrStdout(), ast.Dump(program)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
