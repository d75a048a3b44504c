package main

import (
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/rockwasm/encoder"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wasm>",
	Short: "List the sections of a WebAssembly binary",
	Args:  cobra.ExactArgs(1),
	RunE:  inspectHandler,
}

func init() {
	inspectCmd.Flags().StringP("output", "o", "text", "output format (json or text)")
}

type sectionSummary struct {
	ID     string `json:"id"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

type memorySummary struct {
	Min uint32  `json:"min"`
	Max *uint32 `json:"max,omitempty"`
}

type inspection struct {
	Sections []sectionSummary `json:"sections"`
	Imports  []encoder.Import `json:"imports,omitempty"`
	Memories []memorySummary  `json:"memories,omitempty"`
	Exports  []encoder.Export `json:"exports,omitempty"`
}

func inspectHandler(cmd *cobra.Command, args []string) error {
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	info, err := inspect(b)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "json":
		return printJSON(cmd.OutOrStdout(), info)
	case "text":
		printInspection(cmd.OutOrStdout(), info)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func inspect(b []byte) (*inspection, error) {
	sections, err := encoder.Decode(b)
	if err != nil {
		return nil, err
	}
	info := &inspection{}
	for _, s := range sections {
		info.Sections = append(info.Sections, sectionSummary{
			ID:     s.ID.String(),
			Offset: s.Offset,
			Size:   len(s.Payload),
		})
		switch s.ID {
		case op.ImportSection:
			if info.Imports, err = encoder.ReadImports(s.Payload); err != nil {
				return nil, err
			}
		case op.MemorySection:
			limits, err := encoder.ReadMemories(s.Payload)
			if err != nil {
				return nil, err
			}
			for _, l := range limits {
				info.Memories = append(info.Memories, memorySummary{Min: l.Min, Max: l.Max})
			}
		case op.ExportSection:
			if info.Exports, err = encoder.ReadExports(s.Payload); err != nil {
				return nil, err
			}
		}
	}
	return info, nil
}

func printInspection(w io.Writer, info *inspection) {
	fmt.Fprintln(w, bold("sections"))
	for _, s := range info.Sections {
		fmt.Fprintf(w, "  %-9s offset %-6d size %d\n", s.ID, s.Offset, s.Size)
	}
	if len(info.Imports) > 0 {
		fmt.Fprintln(w, bold("imports"))
		for i, imp := range info.Imports {
			fmt.Fprintf(w, "  %d %s.%s %s\n", i, imp.Module, imp.Name, faint(fmt.Sprintf("type %d", imp.TypeIndex)))
		}
	}
	if len(info.Memories) > 0 {
		fmt.Fprintln(w, bold("memories"))
		for i, m := range info.Memories {
			if m.Max == nil {
				fmt.Fprintf(w, "  %d min %d\n", i, m.Min)
			} else {
				fmt.Fprintf(w, "  %d min %d max %d\n", i, m.Min, *m.Max)
			}
		}
	}
	if len(info.Exports) > 0 {
		fmt.Fprintln(w, bold("exports"))
		for _, e := range info.Exports {
			fmt.Fprintf(w, "  %s %s %d\n", yellow(e.Name), e.Kind, e.Index)
		}
	}
}
