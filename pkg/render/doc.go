// Package render exposes FormRenderer, the per-form helper templates call to
// emit widgets. Values come from a formstate.State, markup from a
// tags.Builder and CSRF tokens from a session.CSRFStore; the renderer only
// resolves values and forwards them.
//
//	r := render.New(form, render.WithCSRFStore(sess))
//	open, _ := r.Begin("/signup", tags.Attrs{})
//	email, _ := r.Text("email", "", tags.Attrs{Extra: map[string]string{"placeholder": "you@example.com"}})
package render
