package render_test

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-simpleform/pkg/config"
	"github.com/goliatone/go-simpleform/pkg/formstate"
	"github.com/goliatone/go-simpleform/pkg/render"
	"github.com/goliatone/go-simpleform/pkg/session"
	"github.com/goliatone/go-simpleform/pkg/tags"
)

// htmlOf returns a checker for (markup, error) results, failing the test on
// error.
func htmlOf(t *testing.T) func(template.HTML, error) string {
	t.Helper()
	return func(out template.HTML, err error) string {
		t.Helper()
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		return string(out)
	}
}

func TestValue_PrefersSubmittedData(t *testing.T) {
	form := formstate.New(formstate.WithData(map[string]any{"email": "ada@example.com", "blank": ""}))
	r := render.New(form)

	if got := r.Value("email", "default@example.com"); got != "ada@example.com" {
		t.Fatalf("expected submitted value, got %v", got)
	}
	if got := r.Value("blank", "fallback"); got != "" {
		t.Fatalf("present but empty value should win, got %v", got)
	}
	if got := r.Value("missing", "fallback"); got != "fallback" {
		t.Fatalf("expected default, got %v", got)
	}
	if got := r.Value("missing", nil); got != nil {
		t.Fatalf("expected nil default, got %v", got)
	}
}

func TestInputs_ResolveValues(t *testing.T) {
	form := formstate.New(formstate.WithData(map[string]any{
		"email": "ada@example.com",
		"age":   36,
		"bio":   "<hi>",
	}))
	r := render.New(form)

	got := htmlOf(t)(r.Text("email", "ignored", tags.Attrs{}))
	want := `<input id="email" name="email" type="text" value="ada@example.com" />`
	if got != want {
		t.Fatalf("text mismatch\nwant: %s\n got: %s", want, got)
	}

	got = htmlOf(t)(r.Hidden("age", nil, tags.Attrs{}))
	if !strings.Contains(got, `value="36"`) {
		t.Fatalf("expected formatted int value, got %s", got)
	}

	got = htmlOf(t)(r.Password("password", nil, tags.Attrs{}))
	if !strings.Contains(got, `value=""`) {
		t.Fatalf("expected empty value, got %s", got)
	}

	got = htmlOf(t)(r.Submit("save", "Save", tags.Attrs{}))
	if !strings.Contains(got, `type="submit"`) || !strings.Contains(got, `value="Save"`) {
		t.Fatalf("submit mismatch: %s", got)
	}

	got = htmlOf(t)(r.File("avatar", nil, tags.Attrs{}))
	if !strings.Contains(got, `type="file"`) {
		t.Fatalf("file mismatch: %s", got)
	}

	got = htmlOf(t)(r.Textarea("bio", "default", tags.Attrs{}))
	if want := `<textarea id="bio" name="bio">&lt;hi&gt;</textarea>`; got != want {
		t.Fatalf("textarea mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestSelect_UsesSubmittedValues(t *testing.T) {
	form := formstate.New(formstate.WithData(map[string]any{"langs": []string{"go", "rust"}}))
	r := render.New(form)
	options := tags.Options("c", "go", "rust")

	got := htmlOf(t)(r.Select("langs", options, "c", tags.Attrs{Extra: map[string]string{"multiple": "multiple"}}))
	want := `<select id="langs" multiple="multiple" name="langs">` +
		`<option value="c">c</option>` +
		`<option selected="selected" value="go">go</option>` +
		`<option selected="selected" value="rust">rust</option>` +
		`</select>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("select mismatch (-want +got):\n%s", diff)
	}

	got = htmlOf(t)(render.New(nil).Select("langs", options, "c", tags.Attrs{}))
	if !strings.Contains(got, `<option selected="selected" value="c">`) {
		t.Fatalf("expected default selection, got %s", got)
	}
}

func TestRadio_CheckedFromSubmittedValue(t *testing.T) {
	red := render.New(formstate.New(formstate.WithData(map[string]any{"color": "red"})))
	blue := render.New(formstate.New(formstate.WithData(map[string]any{"color": "blue"})))

	got := htmlOf(t)(red.Radio("color", "red", false, "", tags.Attrs{}))
	if !strings.Contains(got, `checked="checked"`) {
		t.Fatalf("expected checked radio, got %s", got)
	}
	got = htmlOf(t)(blue.Radio("color", "red", false, "", tags.Attrs{}))
	if strings.Contains(got, "checked") {
		t.Fatalf("expected unchecked radio, got %s", got)
	}
	got = htmlOf(t)(blue.Radio("color", "red", true, "", tags.Attrs{}))
	if !strings.Contains(got, `checked="checked"`) {
		t.Fatalf("explicit checked should win, got %s", got)
	}
}

func TestCheckbox(t *testing.T) {
	form := formstate.New(formstate.WithData(map[string]any{
		"terms":  "1",
		"topics": []string{"go", "web"},
	}))
	r := render.New(form)

	got := htmlOf(t)(r.Checkbox("terms", "", false, "I agree", tags.Attrs{}))
	want := `<label><input checked="checked" id="terms" name="terms" type="checkbox" value="1" /> I agree</label>`
	if got != want {
		t.Fatalf("checkbox mismatch\nwant: %s\n got: %s", want, got)
	}

	got = htmlOf(t)(r.Checkbox("topics", "web", false, "", tags.Attrs{ID: "topic-web"}))
	if !strings.Contains(got, `checked="checked"`) {
		t.Fatalf("expected multi-value match, got %s", got)
	}
	got = htmlOf(t)(r.Checkbox("topics", "db", false, "", tags.Attrs{ID: "topic-db"}))
	if strings.Contains(got, "checked") {
		t.Fatalf("expected unchecked, got %s", got)
	}
	got = htmlOf(t)(r.Checkbox("newsletter", "", true, "", tags.Attrs{}))
	if !strings.Contains(got, `checked="checked"`) {
		t.Fatalf("explicit checked should be honoured, got %s", got)
	}
}

func TestErrorList(t *testing.T) {
	form := formstate.New()
	r := render.New(form)

	if got := htmlOf(t)(r.ErrorList("", tags.Attrs{})); got != "" {
		t.Fatalf("expected empty output without errors, got %q", got)
	}

	form.AddError("field", "required")
	got := htmlOf(t)(r.ErrorList("field", tags.Attrs{}))
	if want := `<ul class="error"><li>required</li></ul>`; got != want {
		t.Fatalf("errorlist mismatch\nwant: %s\n got: %s", want, got)
	}
	if n := strings.Count(got, "<li>"); n != 1 {
		t.Fatalf("expected one item, got %d", n)
	}

	form.AddError("other", "too <short>")
	form.AddError(formstate.FormLevel, "check the form")
	got = htmlOf(t)(r.ErrorList("", tags.Attrs{Class: "alert"}))
	want := "<ul class=\"alert\"><li>check the form</li>\n<li>required</li>\n<li>too &lt;short&gt;</li></ul>"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errorlist mismatch (-want +got):\n%s", diff)
	}

	if got := htmlOf(t)(r.ErrorList("missing", tags.Attrs{})); got != "" {
		t.Fatalf("expected empty output for field without errors, got %q", got)
	}
	if !r.IsError("field") || r.IsError("missing") {
		t.Fatalf("IsError mismatch")
	}
	if diff := cmp.Diff([]string{"required"}, r.ErrorsFor("field")); diff != "" {
		t.Fatalf("ErrorsFor mismatch (-want +got):\n%s", diff)
	}
}

func TestLabel(t *testing.T) {
	r := render.New(nil)

	got := htmlOf(t)(r.Label("email", "", tags.Attrs{}))
	if want := `<label for="email">Email</label>`; got != want {
		t.Fatalf("label mismatch\nwant: %s\n got: %s", want, got)
	}

	got = htmlOf(t)(r.Label("FIRST_NAME", "", tags.Attrs{}))
	if want := `<label for="FIRST_NAME">First_name</label>`; got != want {
		t.Fatalf("label mismatch\nwant: %s\n got: %s", want, got)
	}

	got = htmlOf(t)(r.Label("email", "E-mail address", tags.Attrs{Extra: map[string]string{"for": "contact-email"}}))
	if want := `<label for="contact-email">E-mail address</label>`; got != want {
		t.Fatalf("label mismatch\nwant: %s\n got: %s", want, got)
	}

	got = htmlOf(t)(r.LabelHTML("email", `<b>Email</b><script>x()</script>`, tags.Attrs{}))
	if want := `<label for="email"><b>Email</b></label>`; got != want {
		t.Fatalf("label html mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestLabel_EmptyName(t *testing.T) {
	var missing []string
	r := render.New(nil, render.WithMissingTranslationHandler(func(_ string, key string, _ []any, _ error) string {
		missing = append(missing, key)
		return key
	}))

	if got := htmlOf(t)(r.Label("", "", tags.Attrs{})); got != `<label for=""></label>` {
		t.Fatalf("expected empty label, got %s", got)
	}
	if got := htmlOf(t)(r.LabelHTML("  ", "", tags.Attrs{})); got != `<label for="  "></label>` {
		t.Fatalf("expected empty label html, got %s", got)
	}
	if len(missing) != 0 {
		t.Fatalf("no translation lookup expected for an empty name, got %v", missing)
	}
}

func TestLabel_Translated(t *testing.T) {
	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale == "es" && key == "label.email" {
			return "Correo", nil
		}
		return "", fmt.Errorf("missing %s", key)
	})
	r := render.New(nil, render.WithTranslator(translator, "es"))

	if got := htmlOf(t)(r.Label("email", "", tags.Attrs{})); got != `<label for="email">Correo</label>` {
		t.Fatalf("expected translated label, got %s", got)
	}
	if got := htmlOf(t)(r.Label("phone", "", tags.Attrs{})); got != `<label for="phone">Phone</label>` {
		t.Fatalf("expected fallback label, got %s", got)
	}

	var missing []string
	r = render.New(nil,
		render.WithTranslator(translator, "es"),
		render.WithMissingTranslationHandler(func(_ string, key string, _ []any, _ error) string {
			missing = append(missing, key)
			return "?" + key
		}),
	)
	if got := htmlOf(t)(r.Label("phone", "", tags.Attrs{})); got != `<label for="phone">?label.phone</label>` {
		t.Fatalf("expected handler output, got %s", got)
	}
	if diff := cmp.Diff([]string{"label.phone"}, missing); diff != "" {
		t.Fatalf("missing keys mismatch (-want +got):\n%s", diff)
	}
}

func TestBeginEnd(t *testing.T) {
	r := render.New(formstate.New(formstate.WithMultipart(true)))
	got := htmlOf(t)(r.Begin("/upload", tags.Attrs{ID: "upload"}))
	if want := `<form action="/upload" enctype="multipart/form-data" id="upload" method="post">`; got != want {
		t.Fatalf("begin mismatch\nwant: %s\n got: %s", want, got)
	}
	if got := htmlOf(t)(r.End()); got != "</form>" {
		t.Fatalf("end mismatch: %s", got)
	}

	got = htmlOf(t)(render.New(nil).Begin("/items/7", tags.Attrs{Extra: map[string]string{"method": "PUT"}}))
	if !strings.Contains(got, `method="post"`) || !strings.Contains(got, `name="_method"`) || !strings.Contains(got, `value="PUT"`) {
		t.Fatalf("expected method override, got %s", got)
	}
}

type countingStore struct {
	token string
	calls int
}

func (s *countingStore) CSRFToken() (string, bool) { return s.token, s.token != "" }

func (s *countingStore) NewCSRFToken() (string, error) {
	s.calls++
	s.token = fmt.Sprintf("tok%d", s.calls)
	return s.token, nil
}

func TestCSRF_IssuesTokenOnce(t *testing.T) {
	store := &countingStore{}
	form := formstate.New(formstate.WithData(map[string]any{"_csrf": "submitted"}))
	r := render.New(form, render.WithCSRFStore(store))

	first := htmlOf(t)(r.CSRF())
	second := htmlOf(t)(r.CSRF())
	if first != second {
		t.Fatalf("expected identical csrf markup, got %s and %s", first, second)
	}
	if want := `<input id="_csrf" name="_csrf" type="hidden" value="tok1" />`; first != want {
		t.Fatalf("csrf mismatch\nwant: %s\n got: %s", want, first)
	}
	if store.calls != 1 {
		t.Fatalf("expected one token issued, got %d", store.calls)
	}

	wrapped := htmlOf(t)(r.CSRFToken())
	if want := `<div style="display:none;">` + first + `</div>`; wrapped != want {
		t.Fatalf("csrf token mismatch\nwant: %s\n got: %s", want, wrapped)
	}
}

func TestCSRF_WithSessionAndConfig(t *testing.T) {
	sess := session.New("abc", session.WithTokenGenerator(func() (string, error) { return "s3cr3t", nil }))
	cfg := config.Default()
	cfg.CSRF.Field = "csrf_token"
	r := render.New(nil, render.WithCSRFStore(sess), render.WithConfig(cfg))

	got := htmlOf(t)(r.CSRF())
	if want := `<input id="csrf_token" name="csrf_token" type="hidden" value="s3cr3t" />`; got != want {
		t.Fatalf("csrf mismatch\nwant: %s\n got: %s", want, got)
	}
	if !sess.CheckCSRFToken("s3cr3t") {
		t.Fatalf("expected token stored on the session")
	}
}

func TestCSRF_Errors(t *testing.T) {
	if _, err := render.New(nil).CSRF(); !errors.Is(err, render.ErrNoCSRFStore) {
		t.Fatalf("expected ErrNoCSRFStore, got %v", err)
	}
	if _, err := render.New(nil).CSRFToken(); !errors.Is(err, render.ErrNoCSRFStore) {
		t.Fatalf("expected ErrNoCSRFStore, got %v", err)
	}

	boom := errors.New("boom")
	sess := session.New("x", session.WithTokenGenerator(func() (string, error) { return "", boom }))
	if _, err := render.New(nil, render.WithCSRFStore(sess)).CSRF(); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestConfigClasses(t *testing.T) {
	cfg := config.Default()
	cfg.Classes = map[string]string{
		render.KindText:      "form-control",
		render.KindLabel:     "form-label",
		render.KindErrorList: "invalid-feedback",
	}
	form := formstate.New()
	form.AddError("email", "required")
	r := render.New(form, render.WithConfig(cfg))

	if got := htmlOf(t)(r.Text("email", nil, tags.Attrs{})); !strings.Contains(got, `class="form-control"`) {
		t.Fatalf("expected configured class, got %s", got)
	}
	if got := htmlOf(t)(r.Text("email", nil, tags.Attrs{Class: "mine"})); !strings.Contains(got, `class="mine"`) {
		t.Fatalf("caller class should win, got %s", got)
	}
	if got := htmlOf(t)(r.Label("email", "", tags.Attrs{})); got != `<label class="form-label" for="email">Email</label>` {
		t.Fatalf("unexpected label %s", got)
	}
	if got := htmlOf(t)(r.ErrorList("email", tags.Attrs{})); !strings.HasPrefix(got, `<ul class="invalid-feedback">`) {
		t.Fatalf("unexpected error list %s", got)
	}
}

type failingBuilder struct {
	*tags.HTMLBuilder
}

func (failingBuilder) Text(string, string, tags.Attrs) (template.HTML, error) {
	return "", errors.New("builder down")
}

func TestBuilderErrorsSurface(t *testing.T) {
	r := render.New(nil, render.WithBuilder(failingBuilder{tags.NewBuilder()}))
	if _, err := r.Text("email", nil, tags.Attrs{}); err == nil {
		t.Fatalf("expected builder error")
	}
	if got := htmlOf(t)(r.Label("email", "", tags.Attrs{})); got != `<label for="email">Email</label>` {
		t.Fatalf("embedded builder should still render, got %s", got)
	}
}
