// Package ui renders plexgdm terminal output.
//
// One-shot commands print through a Printer: a command header, the server
// table, and a success or failure box. The watch command runs WatchModel,
// a Bubble Tea program that polls the engine and redraws the server list
// until the user presses q.
//
// Colours come from Lipgloss and degrade to plain text when stdout is not
// a terminal.
package ui
