// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Colors match the CLI palette so progress output and error cards read as
// one surface.
const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	pendingStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	detailStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	skipStyle = lipgloss.NewStyle().
			Foreground(colorWarning)
)
