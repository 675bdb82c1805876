// Package mention detects mention triggers in composer text and filters the
// name directory against the partial name typed after the trigger.
package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Query is the active mention search derived from the current text.
// Offsets are byte offsets into that text.
type Query struct {
	// TriggerIndex is the offset of the last trigger character.
	TriggerIndex int
	// SearchText is everything after the trigger up to the end of the text.
	SearchText string
}

// Span returns the byte range the query covers in the text it was computed
// from: the trigger plus the search text.
func (q Query) Span(trigger rune) (start, end int) {
	return q.TriggerIndex, q.TriggerIndex + utf8.RuneLen(trigger) + len(q.SearchText)
}

// Directory is an ordered list of candidate names. Duplicates are allowed.
type Directory []string

// ComputeQuery finds the last occurrence of trigger in text. It reports
// false iff the trigger does not occur.
func ComputeQuery(text string, trigger rune) (Query, bool) {
	i := strings.LastIndex(text, string(trigger))
	if i < 0 {
		return Query{}, false
	}
	return Query{
		TriggerIndex: i,
		SearchText:   text[i+utf8.RuneLen(trigger):],
	}, true
}

// Triggered reports whether the last character of text is the trigger and
// the character before it is not a letter or digit. A trigger at the very
// start of the text counts.
func Triggered(text string, trigger rune) bool {
	last, size := utf8.DecodeLastRuneInString(text)
	if size == 0 || last != trigger {
		return false
	}
	prev, prevSize := utf8.DecodeLastRuneInString(text[:len(text)-size])
	if prevSize == 0 {
		return true
	}
	return !unicode.IsLetter(prev) && !unicode.IsDigit(prev)
}

// Filter returns the names starting with search, compared case-insensitively,
// in directory order. An empty search matches every name. The result is a
// fresh slice on every call.
func Filter(names Directory, search string) []string {
	out := make([]string, 0, len(names))
	if search == "" {
		return append(out, names...)
	}

	fold := cases.Fold()
	prefix := fold.String(search)
	for _, name := range names {
		if strings.HasPrefix(fold.String(name), prefix) {
			out = append(out, name)
		}
	}
	return out
}
