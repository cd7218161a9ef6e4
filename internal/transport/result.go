package transport

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Detail is a single diagnostic entry on a Result.
type Detail struct {
	Key   string
	Value string
}

// Result is the outcome of one print attempt. It starts out unsuccessful and
// collects diagnostic context (request URL, raw response, error text, stack)
// as the attempt progresses, regardless of how it ends. A Result is created
// fresh per attempt and never shared between attempts.
type Result struct {
	successful bool
	details    []Detail
}

func NewResult() *Result {
	return &Result{}
}

func (r *Result) MarkSuccessful() {
	r.successful = true
}

func (r *Result) WasSuccessful() bool {
	return r.successful
}

// Set stores a diagnostic entry. Re-setting an existing key overwrites the
// value but keeps the original position.
func (r *Result) Set(key, value string) {
	for i := range r.details {
		if r.details[i].Key == key {
			r.details[i].Value = value
			return
		}
	}
	r.details = append(r.details, Detail{Key: key, Value: value})
}

func (r *Result) Get(key string) (string, bool) {
	for _, d := range r.details {
		if d.Key == key {
			return d.Value, true
		}
	}
	return "", false
}

func (r *Result) Details() []Detail {
	return r.details
}

// CaptureFailure records a failed step with its error message and a
// synthesized call-stack trace.
func (r *Result) CaptureFailure(step string, err error) {
	r.Set("error", fmt.Sprintf("%s: %v", step, err))
	r.Set("stack", string(debug.Stack()))
}

func (r *Result) String() string {
	var sb strings.Builder
	if r.successful {
		sb.WriteString("successful")
	} else {
		sb.WriteString("failed")
	}
	for _, d := range r.details {
		sb.WriteString(fmt.Sprintf("; %s=%s", d.Key, d.Value))
	}
	return sb.String()
}
