// Package ui holds the color themes and styled fragments shared by the
// presentation layers. Plain ANSI codes serve the line-oriented CLI output;
// lipgloss styles render the boxed banners and status badges.
package ui
