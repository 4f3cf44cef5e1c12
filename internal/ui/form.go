package ui

import "strings"

// field is a single line-edit input. Masked fields render bullets instead
// of their value.
type field struct {
	key    string
	label  string
	value  string
	masked bool
}

// form is a vertical stack of fields with one focused at a time. Input
// handling is plain rune append/backspace; no external widget.
type form struct {
	title  string
	fields []field
	cursor int
	errMsg string
}

func newForm(title string, fields ...field) *form {
	return &form{title: title, fields: fields}
}

func (f *form) focused() *field {
	if f.cursor < 0 || f.cursor >= len(f.fields) {
		return nil
	}
	return &f.fields[f.cursor]
}

func (f *form) next() {
	if f.cursor < len(f.fields)-1 {
		f.cursor++
	}
}

func (f *form) prev() {
	if f.cursor > 0 {
		f.cursor--
	}
}

// onLast reports whether the focus sits on the final field, where enter
// means submit.
func (f *form) onLast() bool {
	return f.cursor == len(f.fields)-1
}

func (f *form) insert(runes []rune) {
	if fld := f.focused(); fld != nil {
		fld.value += string(runes)
	}
}

func (f *form) backspace() {
	fld := f.focused()
	if fld == nil || fld.value == "" {
		return
	}
	runes := []rune(fld.value)
	fld.value = string(runes[:len(runes)-1])
}

func (f *form) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.value)
		}
	}
	return ""
}

func (f *form) values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		out[fld.key] = strings.TrimSpace(fld.value)
	}
	return out
}
