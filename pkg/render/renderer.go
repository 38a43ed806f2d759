package render

import (
	"fmt"
	"html/template"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-simpleform/pkg/config"
	"github.com/goliatone/go-simpleform/pkg/formstate"
	"github.com/goliatone/go-simpleform/pkg/session"
	"github.com/goliatone/go-simpleform/pkg/tags"
)

// FormRenderer renders the widgets of one form. Each widget resolves its
// current value from the form state (submitted data first, caller default
// second) and forwards it to the tag builder. A renderer is meant for a
// single rendering pass and is not safe for concurrent use.
type FormRenderer struct {
	state   formstate.State
	builder tags.Builder
	csrf    session.CSRFStore
	cfg     config.Config

	themeClasses map[string]string
	translator   Translator
	locale       string
	onMissing    MissingTranslationHandler
}

// New creates a renderer over state. A nil state behaves like an empty form.
func New(state formstate.State, options ...Option) *FormRenderer {
	if state == nil {
		state = formstate.New()
	}
	r := &FormRenderer{
		state:     state,
		builder:   tags.NewBuilder(),
		cfg:       config.Default(),
		onMissing: missingTranslationDefault,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// State returns the wrapped form state.
func (r *FormRenderer) State() formstate.State {
	return r.state
}

// Value returns the submitted value for name, or def when nothing was
// submitted under that name.
func (r *FormRenderer) Value(name string, def any) any {
	if value, ok := r.state.Value(name); ok {
		return value
	}
	return def
}

// Begin opens the form. The enctype follows the state's multipart flag.
func (r *FormRenderer) Begin(action string, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.Form(action, r.state.Multipart(), r.withClass(KindForm, attrs))
}

// End closes the form.
func (r *FormRenderer) End() (template.HTML, error) {
	return r.builder.EndForm()
}

// CSRF renders the session's CSRF token as a hidden input, issuing a token
// when the session has none yet. The hidden value is always the session
// token, never a submitted one.
func (r *FormRenderer) CSRF() (template.HTML, error) {
	if r.csrf == nil {
		return "", ErrNoCSRFStore
	}
	token, err := session.EnsureCSRFToken(r.csrf)
	if err != nil {
		return "", fmt.Errorf("render: csrf token: %w", err)
	}
	return r.builder.Hidden(r.cfg.CSRF.Field, token, tags.Attrs{})
}

// CSRFToken wraps CSRF in a hidden div.
func (r *FormRenderer) CSRFToken() (template.HTML, error) {
	hidden, err := r.CSRF()
	if err != nil {
		return "", err
	}
	return r.builder.Tag("div", tags.Attrs{Style: r.cfg.CSRF.ContainerStyle}, hidden)
}

// Text renders a text input.
func (r *FormRenderer) Text(name string, value any, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.Text(name, r.stringValue(name, value), r.withClass(KindText, attrs))
}

// File renders a file input.
func (r *FormRenderer) File(name string, value any, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.File(name, r.stringValue(name, value), r.withClass(KindFile, attrs))
}

// Hidden renders a hidden input.
func (r *FormRenderer) Hidden(name string, value any, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.Hidden(name, r.stringValue(name, value), r.withClass(KindHidden, attrs))
}

// Password renders a password input.
func (r *FormRenderer) Password(name string, value any, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.Password(name, r.stringValue(name, value), r.withClass(KindPassword, attrs))
}

// Submit renders a submit button.
func (r *FormRenderer) Submit(name string, value any, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.Submit(name, r.stringValue(name, value), r.withClass(KindSubmit, attrs))
}

// Textarea renders a textarea with the submitted content, or content.
func (r *FormRenderer) Textarea(name string, content any, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.Textarea(name, r.stringValue(name, content), r.withClass(KindTextarea, attrs))
}

// Select renders a select element. selected may be a string, []string or any
// value formatted with fmt.Sprint; the submitted value replaces it.
func (r *FormRenderer) Select(name string, options []tags.Option, selected any, attrs tags.Attrs) (template.HTML, error) {
	return r.builder.Select(name, stringValues(r.Value(name, selected)), options, r.withClass(KindSelect, attrs))
}

// Radio renders one radio option. It is checked when the submitted value for
// name equals value, or when checked is true.
func (r *FormRenderer) Radio(name, value string, checked bool, label string, attrs tags.Attrs) (template.HTML, error) {
	checked = checked || r.submittedMatches(name, value)
	return r.builder.Radio(name, value, checked, label, r.withClass(KindRadio, attrs))
}

// Checkbox renders a checkbox. An empty value uses the configured checkbox
// value ("1"). Checked state follows the same rule as Radio.
func (r *FormRenderer) Checkbox(name, value string, checked bool, label string, attrs tags.Attrs) (template.HTML, error) {
	if value == "" {
		value = r.cfg.Checkbox.Value
	}
	checked = checked || r.submittedMatches(name, value)
	return r.builder.Checkbox(name, value, checked, label, r.withClass(KindCheckbox, attrs))
}

// IsError reports whether name has validation errors.
func (r *FormRenderer) IsError(name string) bool {
	return r.state.IsError(name)
}

// ErrorsFor returns the validation errors for name.
func (r *FormRenderer) ErrorsFor(name string) []string {
	return r.state.ErrorsFor(name)
}

// ErrorList renders errors as an unordered list. An empty name renders every
// error of the form. Without errors the result is empty. The list class
// defaults to the configured error class ("error") unless attrs sets one.
func (r *FormRenderer) ErrorList(name string, attrs tags.Attrs) (template.HTML, error) {
	var errs []string
	if name == "" {
		errs = r.state.Errors()
	} else {
		errs = r.state.ErrorsFor(name)
	}
	if len(errs) == 0 {
		return "", nil
	}

	items := make([]string, 0, len(errs))
	for _, msg := range errs {
		item, err := r.builder.Tag("li", tags.Attrs{}, msg)
		if err != nil {
			return "", err
		}
		items = append(items, string(item))
	}

	attrs = r.withClass(KindErrorList, attrs).WithDefaultClass(r.cfg.ErrorList.Class)
	return r.builder.Tag("ul", attrs, template.HTML(strings.Join(items, r.cfg.ErrorList.Separator)))
}

// Label renders a label for name. The for attribute defaults to name; an empty
// label falls back to the translated "label.<name>" key and then to the
// capitalised field name.
func (r *FormRenderer) Label(name, label string, attrs tags.Attrs) (template.HTML, error) {
	if label == "" {
		label = r.defaultLabel(name)
	}
	return r.builder.Tag("label", r.labelAttrs(name, attrs), label)
}

// LabelHTML renders a label whose content is caller markup. The markup is
// sanitised before it is embedded.
func (r *FormRenderer) LabelHTML(name, markup string, attrs tags.Attrs) (template.HTML, error) {
	content := tags.Sanitize(markup)
	if content == "" {
		content = template.HTML(template.HTMLEscapeString(r.defaultLabel(name)))
	}
	return r.builder.Tag("label", r.labelAttrs(name, attrs), content)
}

func (r *FormRenderer) labelAttrs(name string, attrs tags.Attrs) tags.Attrs {
	if !attrs.Has("for") {
		attrs = attrs.With("for", name)
	}
	return r.withClass(KindLabel, attrs)
}

func (r *FormRenderer) defaultLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	fallback := capitalize(name)
	key := r.cfg.LabelKeyPrefix + name
	return translate(r.locale, key, fallback, r.translator, r.onMissing)
}

func (r *FormRenderer) withClass(kind string, attrs tags.Attrs) tags.Attrs {
	if class := r.themeClasses[kind]; class != "" {
		return attrs.WithDefaultClass(class)
	}
	return attrs.WithDefaultClass(r.cfg.Class(kind))
}

func (r *FormRenderer) stringValue(name string, def any) string {
	values := stringValues(r.Value(name, def))
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (r *FormRenderer) submittedMatches(name, value string) bool {
	submitted, ok := r.state.Value(name)
	if !ok {
		return false
	}
	return slices.Contains(stringValues(submitted), value)
}

func stringValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringValues(item)...)
		}
		return out
	case fmt.Stringer:
		return []string{v.String()}
	default:
		return []string{fmt.Sprint(v)}
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(name string) string {
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
}
