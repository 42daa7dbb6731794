package output

import (
	"strings"

	"github.com/fatih/color"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// Visual separator constants for output formatting.
const (
	// SeparatorWidth is the width of separator lines.
	SeparatorWidth = 60

	// SeparatorChar is the character used for separator lines.
	SeparatorChar = "─"
)

// Separator returns a separator line of the default width.
func Separator() string {
	return strings.Repeat(SeparatorChar, SeparatorWidth)
}

// RedSeparator returns a red separator line for errors.
func RedSeparator() string {
	return color.New(color.FgRed).Sprint(Separator())
}

// StateColor picks the display color for a lifecycle state.
func StateColor(s transaction.State) *color.Color {
	switch s {
	case transaction.StateEnsured:
		return color.New(color.FgGreen, color.Bold)
	case transaction.StateConfirmed:
		return color.New(color.FgGreen)
	case transaction.StateSent:
		return color.New(color.FgCyan)
	case transaction.StateFailed:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow)
	}
}
