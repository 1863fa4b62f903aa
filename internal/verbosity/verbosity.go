// Package verbosity defines the detail tiers for multi-resolution rendering.
package verbosity

import "fmt"

// Level controls how much of a file or section is rendered.
type Level int

const (
	// Exclude hides the file or section entirely.
	Exclude Level = 0
	// Existence renders the path only.
	Existence Level = 1
	// Structure renders top-level definition and heading names.
	Structure Level = 2
	// Interface renders names plus signatures and doc comments.
	Interface Level = 3
	// Implementation renders full raw content.
	Implementation Level = 4
)

// ParseLevel converts an integer to a Level, rejecting values outside 0-4.
func ParseLevel(v int) (Level, error) {
	if v < int(Exclude) || v > int(Implementation) {
		return 0, fmt.Errorf("verbosity level must be 0-4, got %d", v)
	}
	return Level(v), nil
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= Exclude && l <= Implementation
}

func (l Level) String() string {
	switch l {
	case Exclude:
		return "exclude"
	case Existence:
		return "existence"
	case Structure:
		return "structure"
	case Interface:
		return "interface"
	case Implementation:
		return "implementation"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Levels returns all defined levels in ascending order.
func Levels() []Level {
	return []Level{Exclude, Existence, Structure, Interface, Implementation}
}
