// Package simpleform renders HTML form widgets that keep submitted values,
// show validation errors and carry a CSRF token. The root package exposes
// aliases and request helpers over the pkg/ packages for quick starts.
package simpleform

import (
	"errors"
	"fmt"
	"net/http"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-simpleform/pkg/formstate"
	"github.com/goliatone/go-simpleform/pkg/render"
	"github.com/goliatone/go-simpleform/pkg/session"
	"github.com/goliatone/go-simpleform/pkg/tags"
	"github.com/goliatone/go-simpleform/pkg/tags/templated"
)

// Renderer aliases render.FormRenderer.
type Renderer = render.FormRenderer

// Form aliases formstate.Form.
type Form = formstate.Form

// Attrs aliases tags.Attrs.
type Attrs = tags.Attrs

// SelectOption aliases tags.Option.
type SelectOption = tags.Option

// New creates a renderer over state.
func New(state formstate.State, options ...render.Option) *render.FormRenderer {
	return render.New(state, options...)
}

// ForRequest returns the submitted form and a renderer bound to it and to the
// CSRF store. Requests without a body (GET, HEAD) yield an empty form; store
// may be nil when the page renders no CSRF field.
func ForRequest(r *http.Request, store session.CSRFStore, options ...render.Option) (*render.FormRenderer, *formstate.Form, error) {
	if r == nil {
		return nil, nil, errors.New("simpleform: request is required")
	}

	form := formstate.New()
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		parsed, err := formstate.FromRequest(r, formstate.DefaultMaxMemory)
		if err != nil {
			return nil, nil, fmt.Errorf("simpleform: %w", err)
		}
		form = parsed
	}

	if store != nil {
		options = append([]render.Option{render.WithCSRFStore(store)}, options...)
	}
	return render.New(form, options...), form, nil
}

// ThemeOptions resolves a theme and returns renderer options applying its
// classes and rendering widgets through the templated builder with the
// theme's partial overrides.
func ThemeOptions(selector theme.ThemeSelector, name, variant string, builderOptions ...templated.Option) ([]render.Option, error) {
	cfg, err := render.ResolveTheme(selector, name, variant)
	if err != nil {
		return nil, err
	}
	builder, err := templated.New(append(builderOptions, templated.WithTheme(cfg))...)
	if err != nil {
		return nil, fmt.Errorf("simpleform: theme builder: %w", err)
	}
	return []render.Option{
		render.WithThemeConfig(cfg),
		render.WithBuilder(builder),
	}, nil
}
