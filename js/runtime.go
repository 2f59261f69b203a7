// Package js exposes minidom documents to JavaScript.
// It uses the goja JavaScript engine (pure Go ES5.1+ implementation).
package js

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// Runtime wraps a goja JavaScript runtime with a console, timers and an
// optional bound document.
type Runtime struct {
	vm       *goja.Runtime
	document *goja.Object
	logger   *slog.Logger
	mu       sync.Mutex
	errors   []error
	onError  func(error)
	sched    *scheduler
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger receiving console output and script errors.
// The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// NewRuntime creates a new JavaScript runtime.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		vm:     goja.New(),
		logger: slog.Default(),
		errors: make([]error, 0),
		sched:  newScheduler(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	r.setupConsole()
	r.setupTimers()

	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

// SetDocument sets the global document object for this runtime.
func (r *Runtime) SetDocument(doc *goja.Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.document = doc
	r.vm.Set("document", doc)
}

// Document returns the global document object, or nil if none is bound.
func (r *Runtime) Document() *goja.Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.document
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Recover from panics in the goja parser/runtime
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err, "")
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err, "")
	}
	return result, err
}

// ExecuteScript compiles and runs code, using src as the script name in
// stack traces and error messages. Scripts run in sloppy mode unless they
// opt into strict mode with a directive.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.recordError(err, src)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err, src)
		return err
	}

	_, err = r.vm.RunProgram(program)
	if err != nil {
		r.recordError(err, src)
	}
	return err
}

// recordError stores err, logs it and forwards it to the error hook.
// The caller holds r.mu.
func (r *Runtime) recordError(err error, src string) {
	r.errors = append(r.errors, err)
	attrs := []any{"error", err}
	if src != "" {
		attrs = append(attrs, "script", src)
	}
	r.logger.Error("script error", attrs...)
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// setupConsole creates the console object. Output goes to the runtime's
// logger at the level matching the console method.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	levels := map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range levels {
		method, level := name, level
		console.Set(method, func(call goja.FunctionCall) goja.Value {
			r.logger.Log(context.Background(), level, "console."+method, "message", formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}

	r.vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
