package main

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/rockwasm/parser"
	"github.com/deepnoodle-ai/rockwasm/types"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Report type errors without compiling",
	Long: `Parse each program and resolve the type of every expression, reporting
unresolved pronouns, wrong argument counts and operations on incompatible
types. Every error in every file is reported.`,
	RunE: checkHandler,
}

func init() {
	addInputFlags(checkCmd)
}

func checkHandler(cmd *cobra.Command, args []string) error {
	srcs, err := getSources(cmd, args)
	if err != nil {
		return err
	}
	var result *multierror.Error
	for _, src := range srcs {
		program, err := parser.Parse(context.Background(), src.Code, parser.WithFilename(src.Name))
		if err == nil {
			err = types.CheckProgram(program)
		}
		if err != nil {
			result = multierror.Append(result, err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red("fail"), src.Name)
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s   %s\n", green("ok"), src.Name)
	}
	return result.ErrorOrNil()
}
