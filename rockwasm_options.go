package rockwasm

import (
	"github.com/deepnoodle-ai/rockwasm/compiler"
	"github.com/deepnoodle-ai/rockwasm/op"
	"github.com/deepnoodle-ai/rockwasm/parser"
	"github.com/deepnoodle-ai/rockwasm/wat"
	"github.com/rs/zerolog"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	logger     zerolog.Logger
	filename   string
	valueType  op.ValueType
	hostModule string
	policy     wat.Policy
	indent     string
	check      bool
}

func collectOptions(opts ...Option) *options {
	o := &options{
		logger:     zerolog.Nop(),
		valueType:  op.I32,
		hostModule: compiler.DefaultHostModule,
		policy:     wat.SingleLine,
		indent:     wat.DefaultIndent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) compilerOpts() []compiler.Option {
	return []compiler.Option{
		compiler.WithValueType(o.valueType),
		compiler.WithHostModule(o.hostModule),
	}
}

// WithLogger sets the logger that receives a debug event per stage. By
// default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFilename sets the filename reported in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithValueType sets the type of every runtime value: op.I32 (the default)
// or op.F32.
func WithValueType(t op.ValueType) Option {
	return func(o *options) {
		o.valueType = t
	}
}

// WithHostModule sets the import namespace of host functions. It defaults
// to "env".
func WithHostModule(name string) Option {
	return func(o *options) {
		o.hostModule = name
	}
}

// WithIndent selects the indented text layout instead of a single line.
func WithIndent(indent bool) Option {
	return func(o *options) {
		if indent {
			o.policy = wat.Indented
		} else {
			o.policy = wat.SingleLine
		}
	}
}

// WithIndentString sets the indentation unit of the indented layout.
func WithIndentString(unit string) Option {
	return func(o *options) {
		o.indent = unit
	}
}

// WithTypeCheck runs the expression type checker before lowering.
func WithTypeCheck() Option {
	return func(o *options) {
		o.check = true
	}
}
