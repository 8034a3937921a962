package cli

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal problem, such as a lint issue.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

type Meta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

// reportedError marks an error whose JSON envelope has already been
// written, so Execute does not print it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func (a *app) outputJSON(resp Response) {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func (a *app) outputSuccess(data interface{}, meta *Meta) {
	a.outputJSON(Response{OK: true, Data: data, Meta: meta})
}

func (a *app) outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	a.outputJSON(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

// fail reports err under code. In JSON mode the envelope is written to
// stdout; either way the command exits non-zero.
func (a *app) fail(code string, err error, suggestion string) error {
	if !a.jsonOutput {
		if suggestion != "" {
			return fmt.Errorf("%w\n\n%s", err, suggestion)
		}
		return err
	}
	a.outputJSON(Response{
		OK: false,
		Error: &ErrorInfo{
			Code:       code,
			Message:    err.Error(),
			Suggestion: suggestion,
		},
	})
	return &reportedError{err: err}
}

func (a *app) failMsg(code, message, suggestion string) error {
	return a.fail(code, errors.New(message), suggestion)
}
