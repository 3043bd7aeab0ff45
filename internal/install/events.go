// SPDX-License-Identifier: MPL-2.0

package install

type (
	// EventKind classifies a progress event.
	EventKind int

	// Event is one progress notification from a run. Step is empty for
	// run-level events.
	Event struct {
		Kind   EventKind
		Step   StepName
		Detail string
		Err    error
	}

	// Reporter consumes progress events. Implementations must not block:
	// the engine publishes synchronously between steps.
	Reporter interface {
		Publish(e Event)
	}

	// ReporterFunc adapts a function to the Reporter interface.
	ReporterFunc func(e Event)
)

const (
	// EventStepStarted is published right before a step runs.
	EventStepStarted EventKind = iota
	// EventStepCompleted is published after a step ran and did work.
	EventStepCompleted
	// EventStepSkipped is published after a step decided it had nothing
	// to do (currently only source acquisition on a pre-existing clone).
	EventStepSkipped
	// EventStepFailed is published after a step returned an error. The
	// run aborts; no further step events follow.
	EventStepFailed
	// EventRunFinished is the final event of every run, success or not.
	EventRunFinished
)

// Publish implements Reporter.
func (f ReporterFunc) Publish(e Event) { f(e) }

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStepStarted:
		return "started"
	case EventStepCompleted:
		return "completed"
	case EventStepSkipped:
		return "skipped"
	case EventStepFailed:
		return "failed"
	case EventRunFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// nopReporter discards all events. It is the default when no reporter is
// injected.
type nopReporter struct{}

func (nopReporter) Publish(Event) {}
