package formstate

import (
	"net/url"
	"slices"
	"strings"
)

// State is what a form renderer reads while rendering: submitted values,
// validation errors and whether the form carries file uploads.
type State interface {
	Value(name string) (any, bool)
	IsError(name string) bool
	ErrorsFor(name string) []string
	// Errors returns every message, form-level messages first, then field
	// messages in the order their fields first received an error.
	Errors() []string
	Multipart() bool
}

// FormLevel is the key under which errors not tied to a field are stored.
const FormLevel = ""

// Form is the default State implementation. It is not safe for concurrent
// mutation; build it per request.
type Form struct {
	data      map[string]any
	errors    map[string][]string
	order     []string
	multipart bool
}

var _ State = (*Form)(nil)

// Option configures a Form.
type Option func(*Form)

// WithData seeds submitted values.
func WithData(data map[string]any) Option {
	return func(f *Form) {
		for key, value := range data {
			f.data[key] = value
		}
	}
}

// WithValues seeds submitted values from decoded form input. Single values are
// stored as strings, repeated keys as []string.
func WithValues(values url.Values) Option {
	return func(f *Form) {
		for key, list := range values {
			switch len(list) {
			case 0:
				continue
			case 1:
				f.data[key] = list[0]
			default:
				f.data[key] = slices.Clone(list)
			}
		}
	}
}

// WithMultipart marks the form as carrying file uploads.
func WithMultipart(multipart bool) Option {
	return func(f *Form) {
		f.multipart = multipart
	}
}

// New creates a Form.
func New(options ...Option) *Form {
	f := &Form{
		data:   make(map[string]any),
		errors: make(map[string][]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Value returns the submitted value for name.
func (f *Form) Value(name string) (any, bool) {
	if f == nil {
		return nil, false
	}
	value, ok := f.data[name]
	return value, ok
}

// Set stores a submitted value.
func (f *Form) Set(name string, value any) {
	f.data[name] = value
}

// Data returns a copy of the submitted values.
func (f *Form) Data() map[string]any {
	out := make(map[string]any, len(f.data))
	for key, value := range f.data {
		out[key] = value
	}
	return out
}

// Multipart reports whether the form needs multipart encoding.
func (f *Form) Multipart() bool {
	return f != nil && f.multipart
}

// AddError appends a message to name. Use FormLevel for errors that belong to
// the form as a whole. Blank and duplicate messages are ignored.
func (f *Form) AddError(name, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	name = strings.TrimSpace(name)
	existing, seen := f.errors[name]
	if slices.Contains(existing, message) {
		return
	}
	if !seen && name != FormLevel {
		f.order = append(f.order, name)
	}
	f.errors[name] = append(existing, message)
}

// AddErrors maps a server error payload onto the form's fields (see
// MapErrorPayload) and records the result. Field names known to the form are
// the keys of its submitted data plus any names passed in fields.
func (f *Form) AddErrors(payload map[string][]string, fields ...string) {
	known := make([]string, 0, len(f.data)+len(fields))
	for key := range f.data {
		known = append(known, key)
	}
	known = append(known, fields...)
	slices.Sort(known)

	mapping := MapErrorPayload(known, payload)
	for _, message := range mapping.Form {
		f.AddError(FormLevel, message)
	}
	names := make([]string, 0, len(mapping.Fields))
	for name := range mapping.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, message := range mapping.Fields[name] {
			f.AddError(name, message)
		}
	}
}

// IsError reports whether name has at least one error.
func (f *Form) IsError(name string) bool {
	return len(f.ErrorsFor(name)) > 0
}

// ErrorsFor returns the messages recorded for name.
func (f *Form) ErrorsFor(name string) []string {
	if f == nil {
		return nil
	}
	return slices.Clone(f.errors[name])
}

// Errors returns all messages, form-level first.
func (f *Form) Errors() []string {
	if f == nil {
		return nil
	}
	var out []string
	out = append(out, f.errors[FormLevel]...)
	for _, name := range f.order {
		out = append(out, f.errors[name]...)
	}
	return out
}

// ErrorMap returns a copy of the errors keyed by field name.
func (f *Form) ErrorMap() map[string][]string {
	out := make(map[string][]string, len(f.errors))
	for key, messages := range f.errors {
		out[key] = slices.Clone(messages)
	}
	return out
}

// HasErrors reports whether any error was recorded.
func (f *Form) HasErrors() bool {
	return f != nil && len(f.errors) > 0
}
