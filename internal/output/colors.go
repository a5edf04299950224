package output

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/oneshot2001/axisfinder/internal/config"
)

// ColorFormatter handles colored output based on configuration
type ColorFormatter struct {
	config  *config.OutputConfig
	noColor bool
	isTTY   bool
}

// ANSI color codes
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

// NewColorFormatter creates a new color formatter with the given configuration
func NewColorFormatter(cfg *config.OutputConfig) *ColorFormatter {
	return &ColorFormatter{
		config:  cfg,
		noColor: cfg.NoColor,
		isTTY:   term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// SetNoColor force-disables colors regardless of config
func (c *ColorFormatter) SetNoColor(noColor bool) {
	if noColor {
		c.noColor = true
	}
}

func (c *ColorFormatter) colorize(color, s string) string {
	if c.noColor || !c.isTTY {
		return s
	}
	return color + s + Reset
}

// Success formats a success message in green
func (c *ColorFormatter) Success(s string) string { return c.colorize(Green, s) }

// Error formats an error message in red
func (c *ColorFormatter) Error(s string) string { return c.colorize(Red, s) }

// Warning formats a warning message in yellow
func (c *ColorFormatter) Warning(s string) string { return c.colorize(Yellow, s) }

// Info formats an info message in cyan
func (c *ColorFormatter) Info(s string) string { return c.colorize(Cyan, s) }

// Muted formats de-emphasized text in gray
func (c *ColorFormatter) Muted(s string) string { return c.colorize(Gray, s) }

// Header formats a section header in bold
func (c *ColorFormatter) Header(s string) string { return c.colorize(Bold, s) }

// Confidence colors a confidence or tier tag by trust level, so a
// salesperson can see at a glance what needs double-checking.
func (c *ColorFormatter) Confidence(tag string) string {
	switch tag {
	case "high", "exact", "verified":
		return c.colorize(Green, tag)
	case "medium", "partial", "base-model", "alias":
		return c.colorize(Cyan, tag)
	case "low", "similar", "series-fallback", "generated":
		return c.colorize(Yellow, tag)
	case "none", "search-fallback":
		return c.colorize(Red, tag)
	default:
		return tag
	}
}

// NDAA colors a compliance category; banned vendors render red.
func (c *ColorFormatter) NDAA(category string) string {
	switch category {
	case "banned", "banned-subsidiary":
		return c.colorize(Red, category)
	case "cloud", "regional":
		return c.colorize(Yellow, category)
	default:
		return c.colorize(Gray, category)
	}
}

// Price formats a dollar amount
func (c *ColorFormatter) Price(amount float64) string {
	return c.colorize(Green, fmt.Sprintf("$%.2f", amount))
}
