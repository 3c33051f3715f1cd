// Package render formats a columnar collection as a box-drawn table.
//
// The renderer never prints more than Config.MaxRows rows or a table wider
// than the configured width. Elided rows are replaced by a "·" row between
// the top and bottom halves, elided columns by a single "…" column in the
// middle, and a footer reports how much is shown.
package render

import (
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ajitpratap0/matresult/pkg/errors"
)

// BorderStyle selects the box drawing characters
type BorderStyle string

const (
	BorderNormal  BorderStyle = "normal"
	BorderRounded BorderStyle = "rounded"
	BorderASCII   BorderStyle = "ascii"
)

// asciiBorder draws tables with +, - and | only
var asciiBorder = lipgloss.Border{
	Top:          "-",
	Bottom:       "-",
	Left:         "|",
	Right:        "|",
	TopLeft:      "+",
	TopRight:     "+",
	BottomLeft:   "+",
	BottomRight:  "+",
	MiddleLeft:   "+",
	MiddleRight:  "+",
	Middle:       "+",
	MiddleTop:    "+",
	MiddleBottom: "+",
}

func (b BorderStyle) border() lipgloss.Border {
	switch b {
	case BorderRounded:
		return lipgloss.RoundedBorder()
	case BorderASCII:
		return asciiBorder
	default:
		return lipgloss.NormalBorder()
	}
}

// Config controls the box renderer
type Config struct {
	// MaxRows is the maximum number of data rows printed, 0 for all
	MaxRows int `yaml:"max_rows" json:"max_rows"`
	// MaxWidth is the maximum table width in cells. 0 falls back to the
	// terminal width of the Context, and to unlimited when that is 0 too.
	MaxWidth int `yaml:"max_width" json:"max_width"`
	// MaxColumnWidth truncates longer cell texts, 0 for no limit
	MaxColumnWidth int `yaml:"max_column_width" json:"max_column_width"`
	// NullValue is printed for NULL cells
	NullValue string `yaml:"null_value" json:"null_value"`
	// ShowTypes adds a row with the column types under the header
	ShowTypes bool        `yaml:"show_types" json:"show_types"`
	Border    BorderStyle `yaml:"border" json:"border"`
}

// DefaultConfig returns the renderer defaults
func DefaultConfig() Config {
	return Config{
		MaxRows:        40,
		MaxColumnWidth: 20,
		NullValue:      "NULL",
		ShowTypes:      true,
		Border:         BorderNormal,
	}
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	if c.MaxRows < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "max_rows must not be negative, got %d", c.MaxRows)
	}
	if c.MaxWidth < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "max_width must not be negative, got %d", c.MaxWidth)
	}
	if c.MaxColumnWidth < 0 || c.MaxColumnWidth == 1 {
		return errors.Newf(errors.ErrorTypeConfig, "max_column_width must be 0 or at least 2, got %d", c.MaxColumnWidth)
	}
	switch c.Border {
	case "", BorderNormal, BorderRounded, BorderASCII:
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown border style %q", c.Border)
	}
	return nil
}

// Context carries the caller's environment into a render call
type Context struct {
	// TerminalWidth is the width of the output device, 0 when unknown
	TerminalWidth int
	Logger        *zap.Logger
}

func (c Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
