package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Compile errors (lowering to a module)
//   - E3xxx: Encode errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected input
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Reserved word used as a name
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unclosed comment
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Missing function result

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Reserved function name
	E2002 ErrorCode = "E2002" // Unresolved pronoun
	E2003 ErrorCode = "E2003" // Invalid break statement
	E2004 ErrorCode = "E2004" // Invalid continue statement
	E2005 ErrorCode = "E2005" // Wrong number of arguments
	E2006 ErrorCode = "E2006" // Duplicate parameter name
	E2007 ErrorCode = "E2007" // Duplicate function
	E2008 ErrorCode = "E2008" // Type error
	E2009 ErrorCode = "E2009" // Integer constant out of range

	// Encode errors (E3xxx)
	E3001 ErrorCode = "E3001" // Unresolved function
	E3002 ErrorCode = "E3002" // Unresolved local
	E3003 ErrorCode = "E3003" // Unresolved label
	E3004 ErrorCode = "E3004" // Unresolved memory
	E3005 ErrorCode = "E3005" // Invalid module
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected input",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "reserved word used as a name",
	E1006: "expected identifier",
	E1007: "unclosed comment",
	E1008: "invalid number literal",
	E1009: "missing function result",

	E2001: "reserved function name",
	E2002: "unresolved pronoun",
	E2003: "invalid break statement",
	E2004: "invalid continue statement",
	E2005: "wrong number of arguments",
	E2006: "duplicate parameter name",
	E2007: "duplicate function",
	E2008: "type error",
	E2009: "integer constant out of range",

	E3001: "unresolved function",
	E3002: "unresolved local",
	E3003: "unresolved label",
	E3004: "unresolved memory",
	E3005: "invalid module",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	case '3':
		return "encode"
	default:
		return "unknown"
	}
}
