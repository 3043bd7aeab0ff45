// SPDX-License-Identifier: MPL-2.0

// Package tui renders installation progress in the terminal.
//
// The package offers two renderers over the same event stream: a Bubble Tea
// model that shows one row per step with a spinner on the running step, and a
// plain writer that emits one log line per event for non-interactive output.
// Neither renderer mutates installer state; events flow one way, from the
// engine to the display.
package tui
