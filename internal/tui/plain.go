// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"io"

	"github.com/RockerzXY/pdfiler/internal/install"
)

// PlainRenderer writes progress events as unstyled log lines. It replaces
// the Bubble Tea model when the output is not a terminal or plain mode is
// requested, and implements install.Reporter directly: the engine calls it
// synchronously, no goroutine or channel involved.
type PlainRenderer struct {
	w     io.Writer
	steps []install.Step
	pos   map[install.StepName]int
}

// NewPlainRenderer returns a renderer for the given plan writing to w.
func NewPlainRenderer(w io.Writer, steps []install.Step) *PlainRenderer {
	pos := make(map[install.StepName]int, len(steps))
	for i, step := range steps {
		pos[step.Name] = i
	}
	return &PlainRenderer{w: w, steps: steps, pos: pos}
}

// Publish implements install.Reporter.
func (r *PlainRenderer) Publish(e install.Event) {
	switch e.Kind {
	case install.EventStepStarted:
		if i, ok := r.pos[e.Step]; ok {
			fmt.Fprintf(r.w, "--> [%d/%d] %s\n", i+1, len(r.steps), r.steps[i].Summary)
		}
	case install.EventStepCompleted:
		r.result("ok", e.Detail)
	case install.EventStepSkipped:
		r.result("skipped", e.Detail)
	case install.EventStepFailed:
		r.result("failed", fmt.Sprintf("%v", e.Err))
	case install.EventRunFinished:
		if e.Err != nil {
			fmt.Fprintln(r.w, "Installation failed.")
		} else {
			fmt.Fprintln(r.w, "Installation finished.")
		}
	}
}

func (r *PlainRenderer) result(verdict, detail string) {
	if detail == "" {
		fmt.Fprintf(r.w, "    %s\n", verdict)
		return
	}
	fmt.Fprintf(r.w, "    %s: %s\n", verdict, detail)
}
