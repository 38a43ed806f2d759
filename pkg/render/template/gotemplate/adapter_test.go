package gotemplate_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-simpleform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-simpleform/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	files := fstest.MapFS{
		"greeting.tpl": {Data: []byte(`Hello {{ name }}{{ suffix }}`)},
		"field.tpl":    {Data: []byte(`<input{{ attrs|attrs }} />`)},
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"suffix": "!"}))

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("greeting", map[string]any{"name": "<Ada>"}, w)
	})
	if want := "Hello &lt;Ada&gt;!"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if written != got {
		t.Fatalf("writer received %q", written)
	}
}

func TestEngine_AttrsFilter(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("field.tpl", map[string]any{
		"attrs": map[string]string{"name": "q", "data-x": "a&b"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := `<input data-x="a&amp;b" name="q" />`; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	got, err = engine.RenderTemplate("field", map[string]any{
		"attrs": map[string]string{"name": "q", "x onfocus=alert(1) y": "v"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := `<input name="q" />`; got != want {
		t.Fatalf("malformed attribute name should be dropped, got %q", got)
	}
}

func TestEngine_GoTemplateOptions(t *testing.T) {
	shout := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.ToUpper(in.String())), nil
	}
	engine := newEngine(t, gotemplate.WithGoTemplateOptions(
		gotemplatepkg.WithGlobalData(map[string]any{"suffix": "?"}),
		gotemplatepkg.WithTemplateFunc(map[string]any{"simpleform_shout": pongo2.FilterFunction(shout)}),
	))

	got, err := engine.RenderTemplate("greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada?" {
		t.Fatalf("global data option not applied, got %q", got)
	}

	got, err = engine.Render("{{ name|simpleform_shout }}", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA" {
		t.Fatalf("template func option not applied, got %q", got)
	}
}

func TestEngine_RenderInlineAndStructData(t *testing.T) {
	engine := newEngine(t)

	type payload struct {
		Name string `json:"name"`
	}
	got, err := engine.Render("{{ name|trim }}", payload{Name: "  grace  "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "grace" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template source")
	}

	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil || !strings.Contains(err.Error(), "missing.tpl") {
		t.Fatalf("expected missing template error, got %v", err)
	}
	if err := engine.RegisterFilter("", nil); err == nil {
		t.Fatalf("expected error for empty filter")
	}
	if err := engine.RegisterFilter("attrs", func(in, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
}
