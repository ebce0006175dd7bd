// Package render binds project data into resolved templates and
// executes them inside a restricted sandbox: no filesystem or network
// access, no dynamic code, only the registered filter set, under a
// wall-clock budget and an output ceiling.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iDorgham/DocGen-sub001/internal/model"
	"github.com/iDorgham/DocGen-sub001/internal/template"
)

// Defaults for the render resource budget.
const (
	DefaultTimeout        = 10 * time.Second
	DefaultMaxOutputBytes = 8 << 20
)

// Options configures a Renderer.
type Options struct {
	Timeout        time.Duration
	MaxOutputBytes int64
}

// Renderer executes resolved templates. Safe for concurrent use; each
// Render call is independent.
type Renderer struct {
	opts Options
}

// New creates a renderer, filling unset options with defaults.
func New(opts Options) *Renderer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxOutputBytes <= 0 {
		opts.MaxOutputBytes = DefaultMaxOutputBytes
	}
	return &Renderer{opts: opts}
}

// Result is format-agnostic rendered text plus metadata.
type Result struct {
	Content  string
	Duration time.Duration

	// Variables is the full resolved variable set the template ran
	// against, recorded on the Document for audit.
	Variables map[string]any

	// Referenced lists the variables the template chain actually
	// references.
	Referenced []string

	Warnings []string
}

// Render binds project data (plus derived variables and caller
// extras) into resolved and executes it. Every required variable
// missing from the merged context is reported in one
// MissingVariableError before execution is attempted.
func (r *Renderer) Render(ctx context.Context, resolved *template.Resolved, project *model.Project, extra map[string]any) (*Result, error) {
	vars := BuildContext(resolved, project, extra, time.Now().UTC())

	var missing []string
	for _, name := range resolved.Required {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingVariableError{Missing: missing}
	}

	var warnings []string
	referenced := make(map[string]bool, len(resolved.Referenced))
	for _, name := range resolved.Referenced {
		referenced[name] = true
	}
	for _, name := range resolved.Declared {
		if !referenced[name] {
			warnings = append(warnings,
				fmt.Sprintf("template %q declares variable %q but never references it", resolved.Name, name))
		}
	}

	start := time.Now()
	content, err := r.execute(ctx, resolved, vars)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, &EmptyOutputError{Template: resolved.Name}
	}

	return &Result{
		Content:    content,
		Duration:   time.Since(start),
		Variables:  vars,
		Referenced: resolved.Referenced,
		Warnings:   warnings,
	}, nil
}

// execute runs the template in a goroutine so the wall-clock budget
// holds even when the template engine blocks. The in-flight execution
// is not preempted; it runs to completion against the capped writer
// while the caller returns early.
func (r *Renderer) execute(ctx context.Context, resolved *template.Resolved, vars map[string]any) (string, error) {
	w := &cappedWriter{limit: r.opts.MaxOutputBytes}
	done := make(chan error, 1)
	go func() {
		done <- resolved.Template.Execute(w, vars)
	}()

	timer := time.NewTimer(r.opts.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			if errors.Is(err, errOutputLimit) {
				return "", &ResourceError{Limit: r.opts.MaxOutputBytes}
			}
			return "", fmt.Errorf("template execution failed: %w", err)
		}
		return w.buf.String(), nil
	case <-timer.C:
		return "", &TimeoutError{Timeout: r.opts.Timeout}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

var errOutputLimit = errors.New("output limit exceeded")

// cappedWriter aborts template execution once the output ceiling is
// reached.
type cappedWriter struct {
	buf   bytes.Buffer
	limit int64
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	if int64(w.buf.Len())+int64(len(p)) > w.limit {
		return 0, errOutputLimit
	}
	return w.buf.Write(p)
}
