// Package analysis provides the per-run context analyses execute in:
// resilient error capture, progress reporting and a run-scoped logger.
package analysis

import (
	"fmt"
	"log/slog"

	"github.com/dacapoday/bbmap/blocks"
	"github.com/dacapoday/bbmap/knowledge"
	"github.com/google/uuid"
)

// LogEntry is an error captured by Resilience.
type LogEntry struct {
	Message string
	Err     error
}

func (e LogEntry) String() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s with %T: %v", e.Message, e.Err, e.Err)
}

// Run is one execution of an analysis against a knowledge base.
type Run struct {
	ID   uuid.UUID
	Name string
	KB   *knowledge.Base

	// FailFast makes Resilience return errors instead of recording them.
	FailFast bool
	// Progress, if set, receives the completion percentage in [0, 100].
	Progress func(percentage float64)

	Errors      []LogEntry
	NamedErrors map[string][]LogEntry

	log *slog.Logger
}

// New creates a run of the analysis name over kb.
// The logger comes from kb.Option() when it implements blocks.Logger.
func New(name string, kb *knowledge.Base) *Run {
	r := &Run{
		ID:          uuid.New(),
		Name:        name,
		KB:          kb,
		NamedErrors: make(map[string][]LogEntry),
	}
	log := slog.Default()
	if o, ok := kb.Option().(blocks.Logger); ok && o.Logger() != nil {
		log = o.Logger()
	}
	r.log = log.With(
		slog.String("component", "analysis"),
		slog.String("analysis", name),
		slog.String("run", r.ID.String()))
	return r
}

// Logger returns the run-scoped logger.
func (r *Run) Logger() *slog.Logger {
	return r.log
}

// Resilience runs fn. With FailFast its error is returned as is; otherwise
// the error is logged, recorded under name (or in Errors when name is empty)
// and nil is returned.
func (r *Run) Resilience(name string, fn func() error) error {
	err := fn()
	if err == nil || r.FailFast {
		return err
	}
	entry := LogEntry{Message: "error occurred", Err: err}
	r.log.Error("caught and logged error with resilience",
		slog.String("name", name),
		slog.String("type", fmt.Sprintf("%T", err)),
		slog.String("error", err.Error()))
	if name == "" {
		r.Errors = append(r.Errors, entry)
	} else {
		r.NamedErrors[name] = append(r.NamedErrors[name], entry)
	}
	return nil
}

// UpdateProgress reports percentage, clamped to [0, 100].
func (r *Run) UpdateProgress(percentage float64) {
	if r.Progress == nil {
		return
	}
	r.Progress(min(max(percentage, 0), 100))
}

// FinishProgress reports completion.
func (r *Run) FinishProgress() {
	r.UpdateProgress(100)
}
