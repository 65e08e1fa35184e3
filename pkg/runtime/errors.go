package runtime

import "fmt"

// UnknownLabelError reports a jump target that is missing from the label
// table at execution time. Parse-time validation should make this
// unreachable, so hitting one means the parser and the runtime disagree
// and the interpreter halts.
type UnknownLabelError struct {
	Label  string
	Script string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("jump target %q not found in %s", e.Label, e.Script)
}
