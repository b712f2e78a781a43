package ux

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// OutputMode controls how much styling the CLI output carries.
type OutputMode string

const (
	// ModeStyled renders colors, icons, and boxes for interactive terminals.
	ModeStyled OutputMode = "styled"

	// ModePlain keeps icons and layout but drops all color.
	ModePlain OutputMode = "plain"

	// ModeMachine emits stable line-oriented output for scripts and CI.
	ModeMachine OutputMode = "machine"
)

var (
	currentMode = ModeStyled
	modeMu      sync.RWMutex
)

// GetOutputMode returns the current output mode.
func GetOutputMode() OutputMode {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return currentMode
}

// SetOutputMode sets the output mode directly.
func SetOutputMode(mode OutputMode) {
	modeMu.Lock()
	defer modeMu.Unlock()
	currentMode = mode
}

// ParseOutputMode converts a string to an OutputMode. Unknown values
// fall back to styled.
func ParseOutputMode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "styled", "color", "c":
		return ModeStyled
	case "plain", "p":
		return ModePlain
	case "machine", "quiet", "q":
		return ModeMachine
	default:
		return ModeStyled
	}
}

// InitOutputMode picks the output mode from the environment. Piped output
// drops to machine mode so reports stay parseable; NO_COLOR keeps icons
// but drops color.
func InitOutputMode() {
	if env := os.Getenv("BENCHTOKEN_OUTPUT"); env != "" {
		SetOutputMode(ParseOutputMode(env))
		return
	}

	if !isTerminal() {
		SetOutputMode(ModeMachine)
		return
	}

	if os.Getenv("NO_COLOR") != "" {
		SetOutputMode(ModePlain)
		return
	}

	SetOutputMode(ModeStyled)
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
