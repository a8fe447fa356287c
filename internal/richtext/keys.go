package richtext

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Command is an editor command bound to a key. It returns true when it
// handled the key, which stops further key handling.
type Command func(e *Editor) bool

// Keymap binds key names such as "Enter", "Shift-Tab", "Mod-z" or
// "Alt-ArrowUp" to commands. "Mod" is the Ctrl key.
type Keymap map[string]Command

var keyAliases = map[string]string{
	"Up":     "ArrowUp",
	"Down":   "ArrowDown",
	"Left":   "ArrowLeft",
	"Right":  "ArrowRight",
	"Esc":    "Escape",
	"Del":    "Delete",
	"Return": "Enter",
	" ":      "Space",
}

// NormalizeKeyName brings a key name into canonical form: modifiers in the
// order Alt, Mod, Shift, then the base key
func NormalizeKeyName(name string) string {
	parts := strings.Split(name, "-")
	base := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	if base == "" && len(parts) > 1 {
		// the key itself is "-"
		base = "-"
		mods = parts[:len(parts)-2]
	}

	var alt, mod, shift bool
	for _, m := range mods {
		switch strings.ToLower(m) {
		case "alt", "a", "option":
			alt = true
		case "mod", "ctrl", "control", "c", "cmd", "meta", "m":
			mod = true
		case "shift", "s":
			shift = true
		}
	}

	if alias, ok := keyAliases[base]; ok {
		base = alias
	}
	if r := []rune(base); len(r) == 1 && unicode.IsUpper(r[0]) {
		shift = true
		base = string(unicode.ToLower(r[0]))
	}
	return joinKeyName(alt, mod, shift, base)
}

func joinKeyName(alt, mod, shift bool, base string) string {
	var sb strings.Builder
	if alt {
		sb.WriteString("Alt-")
	}
	if mod {
		sb.WriteString("Mod-")
	}
	if shift {
		sb.WriteString("Shift-")
	}
	sb.WriteString(base)
	return sb.String()
}

// KeyName returns the canonical name of a tcell key event
func KeyName(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	alt := mods&tcell.ModAlt != 0
	mod := mods&(tcell.ModCtrl|tcell.ModMeta) != 0
	shift := mods&tcell.ModShift != 0

	var base string
	switch key := ev.Key(); {
	case key == tcell.KeyRune:
		r := ev.Rune()
		switch {
		case unicode.IsUpper(r):
			shift = true
			r = unicode.ToLower(r)
		case !unicode.IsLetter(r):
			// shifted punctuation arrives as its own rune
			shift = false
		}
		base = string(r)
		if r == ' ' {
			base = "Space"
		}
	case key == tcell.KeyEnter:
		base = "Enter"
	case key == tcell.KeyTab:
		base = "Tab"
	case key == tcell.KeyBacktab:
		base = "Tab"
		shift = true
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		base = "Backspace"
	case key == tcell.KeyDelete:
		base = "Delete"
	case key == tcell.KeyEscape:
		base = "Escape"
	case key == tcell.KeyUp:
		base = "ArrowUp"
	case key == tcell.KeyDown:
		base = "ArrowDown"
	case key == tcell.KeyLeft:
		base = "ArrowLeft"
	case key == tcell.KeyRight:
		base = "ArrowRight"
	case key == tcell.KeyHome:
		base = "Home"
	case key == tcell.KeyEnd:
		base = "End"
	case key == tcell.KeyPgUp:
		base = "PageUp"
	case key == tcell.KeyPgDn:
		base = "PageDown"
	case key == tcell.KeyCtrlSpace:
		base = "Space"
		mod = true
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		base = string(rune('a' + int(key-tcell.KeyCtrlA)))
		mod = true
	default:
		base = ev.Name()
	}
	return joinKeyName(alt, mod, shift, base)
}

func normalizeKeymap(km Keymap) map[string]Command {
	out := make(map[string]Command, len(km))
	for name, cmd := range km {
		out[NormalizeKeyName(name)] = cmd
	}
	return out
}
