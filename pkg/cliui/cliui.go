// Package cliui provides shared terminal styles for firewatch CLI output.
package cliui

import "github.com/charmbracelet/lipgloss"

var (
	// KeyStyle renders configuration keys and labels.
	KeyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	// ValueStyle renders configuration and event values.
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// DimStyle renders secondary information (paths, placeholders).
	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// EventStyle renders stream event names in watch output.
	EventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)
