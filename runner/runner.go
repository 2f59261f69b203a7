// Package runner executes scripts against a shared document and collects
// the results reported through a minimal testharness-style API.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/minidom/css"
	"github.com/chrisuehlinger/minidom/dom"
	"github.com/chrisuehlinger/minidom/html"
	"github.com/chrisuehlinger/minidom/js"
)

// TestStatus represents the status of a test.
type TestStatus int

const (
	StatusPass TestStatus = iota
	StatusFail
	StatusError
)

// TestResult is the outcome of one test() call inside a script.
type TestResult struct {
	Name    string
	Status  TestStatus
	Message string
}

// ScriptResult represents the result of running one script.
type ScriptResult struct {
	Script   string
	Status   TestStatus
	Tests    []TestResult
	Duration time.Duration
	Error    string
}

// DefaultTimeout bounds how long a script's timers may keep running.
const DefaultTimeout = 5 * time.Second

// Runner runs scripts in one JavaScript runtime bound to one document.
type Runner struct {
	Results []ScriptResult
	Timeout time.Duration

	logger  *slog.Logger
	doc     *dom.Document
	runtime *js.Runtime
	pending []TestResult
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger shared by the runtime and the document.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner with a fresh document shaped as
// <html><body></body></html>, bound as the global document.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: slog.Default(), Timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}

	r.doc = dom.NewDocument(dom.WithLogger(r.logger), dom.WithSelectorCompiler(css.Compile))
	root := r.doc.CreateElement("html")
	r.doc.AsNode().AppendChild(root.AsNode())
	r.doc.SetDocumentElement(root)
	root.AsNode().AppendChild(r.doc.CreateElement("body").AsNode())

	r.runtime = js.NewRuntime(js.WithLogger(r.logger))
	js.NewDOMBinder(r.runtime).BindDocument(r.doc)
	r.installHarness()

	return r
}

// Document returns the document scripts run against.
func (r *Runner) Document() *dom.Document {
	return r.doc
}

// Runtime returns the JavaScript runtime.
func (r *Runner) Runtime() *js.Runtime {
	return r.runtime
}

// installHarness defines the reporting hook and the harness functions.
func (r *Runner) installHarness() {
	vm := r.runtime.VM()
	vm.Set("_report_result", func(call goja.FunctionCall) goja.Value {
		result := TestResult{
			Name:   call.Argument(0).String(),
			Status: StatusPass,
		}
		if call.Argument(1).ToInteger() != 0 {
			result.Status = StatusFail
			result.Message = call.Argument(2).String()
		}
		r.pending = append(r.pending, result)
		return goja.Undefined()
	})
	if _, err := r.runtime.Execute(harnessJS); err != nil {
		r.logger.Error("harness setup failed", "error", err)
	}
}

// RunFile loads and runs the script at path.
func (r *Runner) RunFile(path string) ScriptResult {
	code, err := os.ReadFile(path)
	if err != nil {
		result := ScriptResult{
			Script: path,
			Status: StatusError,
			Error:  fmt.Sprintf("Failed to load script: %v", err),
		}
		r.Results = append(r.Results, result)
		return result
	}
	return r.RunScript(path, string(code))
}

// RunScript runs code under the given name, then runs the timers and
// microtasks it queued, and records its result. A script errors when it
// throws, when a queued callback throws or when its timers outlive
// Timeout. It fails when any of its tests fail.
func (r *Runner) RunScript(name, code string) ScriptResult {
	start := time.Now()
	r.pending = nil

	result := ScriptResult{Script: name, Status: StatusPass}
	if err := r.runtime.ExecuteScript(code, name); err != nil {
		r.runtime.CancelPendingTasks()
		result.Status = StatusError
		result.Error = err.Error()
	} else if err := r.runPending(); err != nil {
		result.Status = StatusError
		result.Error = err.Error()
	}

	result.Tests = r.pending
	r.pending = nil
	for _, test := range result.Tests {
		if test.Status != StatusPass && result.Status == StatusPass {
			result.Status = StatusFail
		}
	}
	result.Duration = time.Since(start)

	r.logger.Debug("script finished",
		"script", name,
		"status", statusToString(result.Status),
		"tests", len(result.Tests),
		"duration", result.Duration,
	)
	r.Results = append(r.Results, result)
	return result
}

// runPending drains the runtime's task queue within Timeout. Anything still
// armed when the deadline passes is cancelled.
func (r *Runner) runPending() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	before := len(r.runtime.Errors())
	if err := r.runtime.RunPending(ctx); err != nil {
		r.runtime.CancelPendingTasks()
		return fmt.Errorf("timed out after %s with pending timers: %w", r.Timeout, err)
	}
	if errs := r.runtime.Errors(); len(errs) > before {
		return errs[before]
	}
	return nil
}

// OuterHTML serializes the document element.
func (r *Runner) OuterHTML() string {
	root := r.doc.DocumentElement()
	if root == nil {
		return ""
	}
	return html.OuterHTML(root.AsNode())
}

// Summary returns counts of passed and failed tests across all scripts,
// plus the number of scripts that errored.
func (r *Runner) Summary() (passed, failed, errored int) {
	for _, result := range r.Results {
		if result.Status == StatusError {
			errored++
		}
		for _, test := range result.Tests {
			switch test.Status {
			case StatusPass:
				passed++
			default:
				failed++
			}
		}
	}
	return
}

// Failed reports whether any script errored or had a failing test.
func (r *Runner) Failed() bool {
	for _, result := range r.Results {
		if result.Status != StatusPass {
			return true
		}
	}
	return false
}

// JSONResult is the JSON form of a ScriptResult.
type JSONResult struct {
	Script   string `json:"script"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Duration int64  `json:"duration"`
	Tests    []struct {
		Name    string `json:"name"`
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"tests"`
}

// ExportJSON exports the results as indented JSON.
func (r *Runner) ExportJSON() ([]byte, error) {
	results := make([]JSONResult, 0, len(r.Results))

	for _, script := range r.Results {
		jr := JSONResult{
			Script:   script.Script,
			Status:   statusToString(script.Status),
			Message:  script.Error,
			Duration: script.Duration.Milliseconds(),
		}

		for _, test := range script.Tests {
			jr.Tests = append(jr.Tests, struct {
				Name    string `json:"name"`
				Status  string `json:"status"`
				Message string `json:"message,omitempty"`
			}{
				Name:    test.Name,
				Status:  statusToString(test.Status),
				Message: test.Message,
			})
		}

		results = append(results, jr)
	}

	return json.MarshalIndent(results, "", "  ")
}

// String returns the status name used in reports.
func (s TestStatus) String() string {
	return statusToString(s)
}

func statusToString(status TestStatus) string {
	switch status {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
