package shader

import "fmt"

// APIError is a fatal rendering API failure. It names the operation that
// failed and carries the driver's result code when one exists. Recoverable
// compilation problems are reported through CompileError instead.
type APIError struct {
	// Op is the operation that failed (e.g. "vkCreateShaderModule").
	Op string

	// Code is the API result code, zero when the failure has no code.
	Code int32

	// Message describes the failure.
	Message string
}

// Error formats the failure for logs.
//
// Returns:
//   - string: the operation, message and result code
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// CompileError reports a failed shader compilation: a bad binding annotation,
// a front-end parse error or an empty SPIR-V result. It is returned from
// Compile only when the caller asked for strict error checking; otherwise the
// failure is logged and the program is left flagged.
type CompileError struct {
	// Name is the program's name.
	Name string

	// Stage is the program's pipeline stage.
	Stage Stage

	// Log is the compiler's diagnostic text.
	Log string
}

// Error formats the failure for logs.
//
// Returns:
//   - string: the stage, program name and diagnostic text
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader %s compile error:\n%s", e.Stage, e.Name, e.Log)
}
