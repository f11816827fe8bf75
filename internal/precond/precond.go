// Package precond reports the checked-precondition failures that the
// block/blockchain/cachedseq layers raise instead of silently
// misbehaving: bad indices, overdrawn removals, appends to a full
// block, and the like. These are programming errors, not ordinary
// failures, but they are returned as plain errors rather than panics.
package precond

import "fmt"

// Violation is a checked-precondition failure: the caller asked the
// store to do something its invariants forbid. The Op and Fields
// identify the call site and the offending inputs so the error message
// is useful without a debugger attached.
type Violation struct {
	Op     string
	Fields map[string]any
	Msg    string
}

func (v *Violation) Error() string {
	s := fmt.Sprintf("%s: %s", v.Op, v.Msg)
	for k, val := range v.Fields {
		s += fmt.Sprintf(" %s=%v", k, val)
	}
	return s
}

// New builds a Violation. fields is a flattened key, value, key, value, ...
// list, matching the slog-style call convention used elsewhere in this
// module.
func New(op, msg string, fields ...any) *Violation {
	m := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		m[key] = fields[i+1]
	}
	return &Violation{Op: op, Fields: m, Msg: msg}
}
