package cmd

import "github.com/charmbracelet/lipgloss"

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
