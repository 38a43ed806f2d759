package tags

import (
	"html"
	"sort"
	"strings"
	"unicode"
)

// Attrs enumerates the attributes callers commonly set on a widget. Anything
// else goes into Extra. When a tag is built, builder-computed attributes are
// written first and Attrs overlays them, so caller values always win.
type Attrs struct {
	ID    string
	Class string
	Style string
	// Extra holds arbitrary attributes (for example "placeholder", "method",
	// "for", "data-*"). ID/Class/Style fields take precedence over the same
	// keys in Extra when they are non-empty.
	Extra map[string]string
}

// Get returns the value of key, checking the dedicated fields before Extra.
func (a Attrs) Get(key string) (string, bool) {
	switch key {
	case "id":
		if a.ID != "" {
			return a.ID, true
		}
	case "class":
		if a.Class != "" {
			return a.Class, true
		}
	case "style":
		if a.Style != "" {
			return a.Style, true
		}
	}
	value, ok := a.Extra[key]
	return value, ok
}

// Has reports whether key is set.
func (a Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// With returns a copy of a with key set in Extra.
func (a Attrs) With(key, value string) Attrs {
	out := a
	out.Extra = make(map[string]string, len(a.Extra)+1)
	for k, v := range a.Extra {
		out.Extra[k] = v
	}
	out.Extra[key] = value
	return out
}

// Without returns a copy of a with the listed keys removed from Extra.
func (a Attrs) Without(keys ...string) Attrs {
	out := a
	if len(a.Extra) == 0 {
		return out
	}
	out.Extra = make(map[string]string, len(a.Extra))
	for k, v := range a.Extra {
		out.Extra[k] = v
	}
	for _, key := range keys {
		delete(out.Extra, key)
	}
	return out
}

// WithDefaultClass sets Class when the caller did not provide one.
func (a Attrs) WithDefaultClass(class string) Attrs {
	class = strings.TrimSpace(class)
	if class == "" || a.Has("class") {
		return a
	}
	a.Class = class
	return a
}

// Map flattens the attribute set into a single map.
func (a Attrs) Map() map[string]string {
	out := make(map[string]string, len(a.Extra)+3)
	for key, value := range a.Extra {
		if key = strings.TrimSpace(key); key != "" {
			out[key] = value
		}
	}
	if a.ID != "" {
		out["id"] = a.ID
	}
	if a.Class != "" {
		out["class"] = a.Class
	}
	if a.Style != "" {
		out["style"] = a.Style
	}
	return out
}

// Merge overlays caller attributes on top of base and returns the result.
func Merge(base map[string]string, attrs Attrs) map[string]string {
	out := make(map[string]string, len(base)+len(attrs.Extra)+3)
	for key, value := range base {
		out[key] = value
	}
	for key, value := range attrs.Map() {
		out[key] = value
	}
	return out
}

// Render writes attributes sorted by name, each prefixed with a space, with
// values escaped. Keys that are not valid attribute names are dropped.
func Render(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		if ValidAttrName(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteByte(' ')
		builder.WriteString(key)
		builder.WriteString(`="`)
		builder.WriteString(html.EscapeString(attrs[key]))
		builder.WriteByte('"')
	}
	return builder.String()
}

// ValidAttrName reports whether name can be written as an HTML attribute name:
// non-empty, with no whitespace, control characters, quotes, "<", ">", "/" or
// "=".
func ValidAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case unicode.IsSpace(r), unicode.IsControl(r), r == unicode.ReplacementChar:
			return false
		case r == '"', r == '\'', r == '<', r == '>', r == '/', r == '=':
			return false
		}
	}
	return true
}

// SafeID turns a field name into a value usable as an element id. Characters
// outside [A-Za-z0-9_-] are replaced with underscores.
func SafeID(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
