package main

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	nameStyle  = lipgloss.NewStyle().Bold(true)
	kindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)
