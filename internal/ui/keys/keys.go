package keys

import "strings"

// Normalize converts tcell key names to the config format.
// tcell outputs "Ctrl-C" (hyphen) for bare Ctrl keys but config uses "Ctrl+C" (plus),
// and names the escape key "Esc" where config uses "Escape".
func Normalize(name string) string {
	if name == "Esc" {
		return "Escape"
	}
	return strings.ReplaceAll(name, "Ctrl-", "Ctrl+")
}
