// Package rockwasm compiles Rockstar programs to WebAssembly.
//
// A compilation runs four stages: the source is parsed into an AST, the AST is
// lowered to a module, and the module is emitted as WebAssembly text, binary,
// or both.
//
//	wat, err := rockwasm.CompileText(source, rockwasm.WithIndent(true))
//	bin, err := rockwasm.CompileBinary(source)
package rockwasm

import (
	"context"
	"time"

	"github.com/deepnoodle-ai/rockwasm/ast"
	"github.com/deepnoodle-ai/rockwasm/compiler"
	"github.com/deepnoodle-ai/rockwasm/encoder"
	"github.com/deepnoodle-ai/rockwasm/parser"
	"github.com/deepnoodle-ai/rockwasm/types"
	"github.com/deepnoodle-ai/rockwasm/wasm"
	"github.com/deepnoodle-ai/rockwasm/wat"
	"github.com/gofrs/uuid"
)

// Result holds the artifacts of one compilation. Text and Binary are only
// set when the corresponding output was requested.
type Result struct {
	ID      uuid.UUID
	Program *ast.Program
	Module  *wasm.Module
	Text    string
	Binary  []byte
}

// Output selects which artifacts Compile produces.
type Output int

const (
	OutputText Output = 1 << iota
	OutputBinary

	OutputAll = OutputText | OutputBinary
)

// Compile parses and lowers source and emits the requested outputs.
func Compile(ctx context.Context, source string, output Output, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	log := o.logger.With().Str("compilation", id.String()).Logger()
	if o.filename != "" {
		log = log.With().Str("file", o.filename).Logger()
	}
	result := &Result{ID: id}

	start := time.Now()
	program, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		log.Debug().Err(err).Msg("parse failed")
		return nil, err
	}
	result.Program = program
	log.Debug().Int("statements", len(program.Stmts)).Dur("elapsed", time.Since(start)).Msg("parsed")

	if o.check {
		if err := types.CheckProgram(program); err != nil {
			log.Debug().Err(err).Msg("type check failed")
			return nil, err
		}
		log.Debug().Msg("type checked")
	}

	start = time.Now()
	module, err := compiler.Compile(program, o.compilerOpts()...)
	if err != nil {
		log.Debug().Err(err).Msg("lowering failed")
		return nil, err
	}
	result.Module = module
	log.Debug().
		Int("imports", len(module.Imports)).
		Int("functions", len(module.Functions)).
		Int("data", len(module.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("lowered")

	if output&OutputText != 0 {
		p := &wat.Printer{Policy: o.policy, Indent: o.indent}
		result.Text = p.Format(wat.Build(module))
		log.Debug().Int("bytes", len(result.Text)).Str("policy", o.policy.String()).Msg("emitted text")
	}
	if output&OutputBinary != 0 {
		b, err := encoder.Encode(module)
		if err != nil {
			log.Debug().Err(err).Msg("encoding failed")
			return nil, err
		}
		result.Binary = b
		log.Debug().Int("bytes", len(b)).Msg("emitted binary")
	}
	return result, nil
}

// CompileModule parses and lowers source without emitting anything.
func CompileModule(source string, opts ...Option) (*wasm.Module, error) {
	result, err := Compile(context.Background(), source, 0, opts...)
	if err != nil {
		return nil, err
	}
	return result.Module, nil
}

// CompileText returns the WebAssembly text form of source.
func CompileText(source string, opts ...Option) (string, error) {
	result, err := Compile(context.Background(), source, OutputText, opts...)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// CompileBinary returns the WebAssembly binary form of source.
func CompileBinary(source string, opts ...Option) ([]byte, error) {
	result, err := Compile(context.Background(), source, OutputBinary, opts...)
	if err != nil {
		return nil, err
	}
	return result.Binary, nil
}
