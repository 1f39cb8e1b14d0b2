package cgen

import (
	"fmt"

	"quill/internal/ir"
)

// InvalidHandleError reports a value or block handle used outside the
// bounds of its owning table, or an instruction missing a required
// operand. It indicates a construction-time front-end bug; emission
// aborts but the module itself is left untouched.
type InvalidHandleError struct {
	Handle    int32
	Table     string
	Container string
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("%s: invalid %s handle %d", e.Container, e.Table, e.Handle)
}

// UnsupportedConstructError reports an IR feature this backend cannot
// lower. The only such feature today is the static-scope accessor on a
// Named reference, which has no C rendering.
type UnsupportedConstructError struct {
	Construct string
	Name      string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported construct: %s on %q", e.Construct, e.Name)
}

// CallReuseError reports an expression value whose rendering emits a
// call referenced from more than one use site while the single-use
// policy is in force. The call may sit anywhere in the shared value's
// operand tree; re-rendering it duplicates its side effect in the
// emitted text.
type CallReuseError struct {
	Value     ir.ValueID
	Container string
}

func (e *CallReuseError) Error() string {
	return fmt.Sprintf("%s: call-bearing value %d referenced more than once", e.Container, e.Value)
}
