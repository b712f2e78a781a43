// Package ux provides terminal output styling for the benchtoken CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// benchtoken color palette, graphite neutrals with signal accents
var (
	ColorSignal   = lipgloss.Color("#56D364") // green - pass lines, winners
	ColorEmber    = lipgloss.Color("#E3B341") // amber - warnings, near-threshold
	ColorAlarm    = lipgloss.Color("#F85149") // red - mismatches, regressions
	ColorSteel    = lipgloss.Color("#79C0FF") // blue - headings, labels
	ColorGraphite = lipgloss.Color("#6E7681") // gray - secondary text, borders

	// Semantic aliases
	ColorSuccess = ColorSignal
	ColorWarning = ColorEmber
	ColorError   = ColorAlarm
	ColorMuted   = ColorGraphite
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	// Text styles
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Box styles
	Box        lipgloss.Style
	WarningBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	// Text styles
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorSteel),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorSteel),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorGraphite),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorSignal).Bold(true),

	// Box styles
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSteel).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// Print helpers that respect the output mode

// Title prints a styled title
func Title(text string) {
	if GetOutputMode() == ModeMachine {
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	switch GetOutputMode() {
	case ModeMachine:
		fmt.Fprintf(os.Stdout, "OK: %s\n", text)
	case ModePlain:
		fmt.Printf("%s %s\n", IconSuccess, text)
	default:
		fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message
func Warning(text string) {
	switch GetOutputMode() {
	case ModeMachine:
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
	case ModePlain:
		fmt.Printf("%s %s\n", IconWarning, text)
	default:
		fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message
func Error(text string) {
	switch GetOutputMode() {
	case ModeMachine:
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
	case ModePlain:
		fmt.Printf("%s %s\n", IconError, text)
	default:
		fmt.Printf("%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message
func Info(text string) {
	if GetOutputMode() == ModeMachine {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints muted/secondary text
func Muted(text string) {
	if GetOutputMode() == ModeMachine {
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// Field prints one aligned "label: value" line of a run banner
func Field(label, value string) {
	if GetOutputMode() == ModeMachine {
		fmt.Printf("%s: %s\n", label, value)
		return
	}
	fmt.Printf("   %s %s\n", Styles.Muted.Render(fmt.Sprintf("%-14s", label+":")), value)
}

// ListItem prints one bullet line with an optional muted note
func ListItem(name, note string) {
	switch GetOutputMode() {
	case ModeMachine:
		if note != "" {
			fmt.Printf("%s\t%s\n", name, note)
		} else {
			fmt.Println(name)
		}
	default:
		if note != "" {
			fmt.Printf("%s %s %s\n", IconBullet, name, Styles.Muted.Render("("+note+")"))
		} else {
			fmt.Printf("%s %s\n", IconBullet, name)
		}
	}
}

// Box prints text in a rounded box
func Box(title, content string) {
	if GetOutputMode() == ModeMachine {
		fmt.Printf("%s: %s\n", title, content)
		return
	}
	boxStyle := Styles.Box.Width(60)
	titleLine := Styles.Title.Render(title)
	fmt.Println(boxStyle.Render(titleLine + "\n" + content))
}

// ErrorBox prints text in an error-styled box
func ErrorBox(title, content string) {
	if GetOutputMode() == ModeMachine {
		fmt.Fprintf(os.Stderr, "ERROR %s: %s\n", title, content)
		return
	}
	boxStyle := Styles.ErrorBox.Width(60)
	titleLine := Styles.Error.Bold(true).Render(title)
	fmt.Println(boxStyle.Render(titleLine + "\n" + content))
}

// Summary prints the end-of-run counts
func Summary(timed, failed, total int) {
	if GetOutputMode() == ModeMachine {
		fmt.Printf("SUMMARY: timed=%d failed=%d total=%d\n", timed, failed, total)
		return
	}
	fmt.Printf("\n%s %s  %s %s  %s %s\n",
		Styles.Success.Render(fmt.Sprintf("%d", timed)), Styles.Muted.Render("timed"),
		Styles.Error.Render(fmt.Sprintf("%d", failed)), Styles.Muted.Render("failed"),
		Styles.Bold.Render(fmt.Sprintf("%d", total)), Styles.Muted.Render("total"),
	)
}
