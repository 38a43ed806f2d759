package main

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/mail"
	"slices"
	"strings"

	simpleform "github.com/goliatone/go-simpleform"
	"github.com/goliatone/go-simpleform/pkg/config"
	"github.com/goliatone/go-simpleform/pkg/formstate"
	"github.com/goliatone/go-simpleform/pkg/render"
	"github.com/goliatone/go-simpleform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-simpleform/pkg/session"
	"github.com/goliatone/go-simpleform/pkg/tags"
)

//go:embed templates/*.tpl
var pageTemplates embed.FS

var plans = []tags.Option{
	{Value: "free", Label: "Free"},
	{Value: "pro", Label: "Pro", Group: "Paid"},
	{Value: "team", Label: "Team", Group: "Paid"},
}

type signupHandler struct {
	sessions *session.Manager
	cfg      config.Config
	pages    *gotemplate.Engine
	options  []render.Option
}

func newSignupHandler(sessions *session.Manager, cfg config.Config, options ...render.Option) (*signupHandler, error) {
	files, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		return nil, err
	}
	pages, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		return nil, err
	}
	return &signupHandler{
		sessions: sessions,
		cfg:      cfg,
		pages:    pages,
		options:  append([]render.Option{render.WithConfig(cfg)}, options...),
	}, nil
}

func (h *signupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.sessions.FromRequest(w, r)
	renderer, form, err := simpleform.ForRequest(r, sess, h.options...)
	if err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	notice := ""
	if r.Method == http.MethodPost {
		h.validate(sess, form)
		if form.HasErrors() {
			status = http.StatusUnprocessableEntity
		} else {
			notice = "Thanks, your account is ready."
			sess.Set("email", form.Data()["email"])
		}
	}

	fragments, err := renderSignup(renderer)
	if err != nil {
		log.Printf("render signup: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := h.pages.RenderTemplate("page", map[string]any{
		"title":  "Sign up",
		"notice": notice,
		"form":   fragments,
	}, w); err != nil {
		log.Printf("render page: %v", err)
	}
}

// validate records field errors as a server-side payload keyed by request
// paths, the way an API validator would report them.
func (h *signupHandler) validate(sess *session.Session, form *formstate.Form) {
	if !sess.CheckCSRFToken(formString(form, h.cfg.CSRF.Field)) {
		form.AddError(formstate.FormLevel, "Your session expired, please submit the form again.")
	}

	payload := map[string][]string{}
	email := strings.TrimSpace(formString(form, "email"))
	if email == "" {
		payload["/body/email"] = append(payload["/body/email"], "Email is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		payload["/body/email"] = append(payload["/body/email"], "Enter a valid email address.")
	}
	if len(formString(form, "password")) < 8 {
		payload["/body/password"] = append(payload["/body/password"], "Use at least 8 characters.")
	}
	if !slices.ContainsFunc(plans, func(o tags.Option) bool { return o.Value == formString(form, "plan") }) {
		payload["/body/plan"] = append(payload["/body/plan"], "Pick a plan.")
	}
	if formString(form, "agree") != h.cfg.Checkbox.Value {
		payload["/body/agree"] = append(payload["/body/agree"], "You must accept the terms.")
	}
	form.AddErrors(payload, "email", "password", "plan", "agree")
}

func formString(form *formstate.Form, name string) string {
	value, ok := form.Value(name)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// renderSignup renders every widget of the sign-up form into named fragments.
func renderSignup(r *render.FormRenderer) (map[string]string, error) {
	out := make(map[string]string)
	var firstErr error
	set := func(key string) func(template.HTML, error) {
		return func(markup template.HTML, err error) {
			if err != nil && firstErr == nil {
				firstErr = err
			}
			out[key] = string(markup)
		}
	}
	none := tags.Attrs{}

	set("summary")(r.ErrorList("", tags.Attrs{Class: "error summary"}))
	set("begin")(r.Begin("/signup", none))
	set("csrf")(r.CSRFToken())
	set("email_label")(r.Label("email", "", none))
	set("email")(r.Text("email", nil, tags.Attrs{Extra: map[string]string{"placeholder": "you@example.com"}}))
	set("email_errors")(r.ErrorList("email", none))
	set("password_label")(r.Label("password", "", none))
	set("password")(r.Password("password", nil, none))
	set("password_errors")(r.ErrorList("password", none))
	set("plan_label")(r.Label("plan", "", none))
	set("plan")(r.Select("plan", plans, "free", none))
	set("plan_errors")(r.ErrorList("plan", none))
	set("bio_label")(r.LabelHTML("bio", "About <em>you</em>", none))
	set("bio")(r.Textarea("bio", nil, tags.Attrs{Extra: map[string]string{"rows": "3"}}))
	set("agree")(r.Checkbox("agree", "", false, "I accept the terms", none))
	set("agree_errors")(r.ErrorList("agree", none))
	set("submit")(r.Submit("signup", "Create account", none))
	set("end")(r.End())

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
