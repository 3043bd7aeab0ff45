// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/RockerzXY/pdfiler/internal/install"

// EventBridge carries engine events to a renderer running in another
// goroutine. The channel is buffered for a complete run (at most two events
// per step plus the final one), so Publish never blocks the engine even when
// the renderer has already quit.
type EventBridge struct {
	ch chan install.Event
}

// NewEventBridge returns a bridge sized for a plan of the given length.
func NewEventBridge(steps int) *EventBridge {
	return &EventBridge{ch: make(chan install.Event, 2*steps+2)}
}

// Publish implements install.Reporter.
func (b *EventBridge) Publish(e install.Event) { b.ch <- e }

// Events returns the receive side of the bridge.
func (b *EventBridge) Events() <-chan install.Event { return b.ch }
