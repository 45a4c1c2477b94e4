package input

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Key is a normalized key name: a lower-case rune ("w", "m") or a lower-case
// tcell key name ("up", "esc", "enter"). Config files use the same names.
type Key string

const (
	KeyNone   Key = ""
	KeyEscape Key = "esc"
	KeyEnter  Key = "enter"
	KeySpace  Key = "space"
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
)

var aliases = map[string]Key{
	"escape": KeyEscape,
	"return": KeyEnter,
}

// ParseKey normalizes a configured key name.
func ParseKey(name string) Key {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" && name != "" {
		return KeySpace
	}
	if k, ok := aliases[n]; ok {
		return k
	}
	return Key(n)
}

// KeyOf maps a terminal key event onto a Key. Unknown keys map to KeyNone.
func KeyOf(ev *tcell.EventKey) Key {
	if ev == nil {
		return KeyNone
	}
	if ev.Key() == tcell.KeyRune {
		r := unicode.ToLower(ev.Rune())
		if r == ' ' {
			return KeySpace
		}
		return Key(string(r))
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return ParseKey(name)
	}
	return KeyNone
}
