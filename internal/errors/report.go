package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Report is the canonical structured error type for this module. All
// error builders in internal/elaborate and internal/unify return
// *Report wrapped with WrapReport.
type Report struct {
	Schema  string         `json:"schema"` // always "mltt-elab.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    interface{}    `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error so it survives errors.As
// unwrapping through ordinary Go error-handling code.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders a Report as deterministic JSON.
func (r *Report) ToJSON() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report from a registered code, a human message, an
// optional span, and optional structured data. It panics if code is
// not registered: every call site should use one of the ELB/UNI/NBE
// constants from codes.go, never an ad hoc string.
func New(code string, span interface{}, message string, data map[string]any) error {
	entry, ok := Lookup(code)
	if !ok {
		panic(fmt.Sprintf("errors: unregistered code %q", code))
	}
	return WrapReport(&Report{
		Schema:  "mltt-elab.error/v1",
		Code:    entry.Code,
		Phase:   entry.Phase,
		Message: message,
		Span:    span,
		Data:    data,
	})
}

// Bug builds a Report for an internal invariant violation - the
// "should never happen" class from spec.md's Bug error kind.
func Bug(code string, span interface{}, message string) error {
	return New(code, span, "bug: "+message, nil)
}
