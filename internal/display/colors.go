package display

import "strconv"

// Terminal color codes
const (
	Reset = "\033[0m"
	Red   = "\033[31m"

	// cellReset ends a rendered board line
	cellReset = "\033[0;0;0m"
)

// CursorUp returns the sequence moving the cursor n lines up
func CursorUp(n int) string {
	return "\033[" + strconv.Itoa(n) + "A"
}

// Error returns text colored for error output
func Error(text string) string {
	return Red + text + Reset
}
