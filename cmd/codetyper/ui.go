package main

import (
	"github.com/charmbracelet/lipgloss"

	"codetyper/internal/errors"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7B61FF"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#73F59F"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))
)

// renderBanner formats the line announcing the chosen file
func renderBanner(id string) string {
	return labelStyle.Render("Selected file:") + " " + fileStyle.Render(id)
}

// renderError formats a fatal error with a hint for the common kinds
func renderError(err error) string {
	line := errorStyle.Render("Error:") + " " + err.Error()
	if hint := hintFor(err); hint != "" {
		line += "\n" + hintStyle.Render(hint)
	}
	return line
}

func hintFor(err error) string {
	switch errors.KindOf(err) {
	case errors.EmptyPool:
		return "No files to choose from. Check the directory or the --include/--exclude patterns."
	case errors.NetworkOrParseFailure:
		return "Could not reach the repository. Check the network or use --local DIR."
	case errors.InvalidContent:
		return "The chosen file is not UTF-8 text. Run again to pick another file."
	case errors.TerminalModeFailure:
		return "codetyper needs an interactive terminal."
	case errors.InvalidConfig:
		return "Check the config file and flags."
	default:
		return ""
	}
}
