package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-simpleform/pkg/config"
	"github.com/goliatone/go-simpleform/pkg/session"
	"github.com/goliatone/go-simpleform/pkg/tags"
)

// Option configures a FormRenderer.
type Option func(*FormRenderer)

// WithBuilder swaps the tag builder. Nil keeps the default HTML builder.
func WithBuilder(builder tags.Builder) Option {
	return func(r *FormRenderer) {
		if builder != nil {
			r.builder = builder
		}
	}
}

// WithCSRFStore provides the session capability used by CSRF and CSRFToken.
func WithCSRFStore(store session.CSRFStore) Option {
	return func(r *FormRenderer) {
		r.csrf = store
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(r *FormRenderer) {
		r.cfg = cfg
	}
}

// WithThemeConfig applies class tokens ("forms.<kind>.class") from a resolved
// theme. Theme classes take precedence over config classes; caller classes
// win over both.
func WithThemeConfig(cfg *theme.RendererConfig) Option {
	return func(r *FormRenderer) {
		r.themeClasses = themeClasses(cfg)
	}
}

// WithTranslator enables label translation for locale.
func WithTranslator(t Translator, locale string) Option {
	return func(r *FormRenderer) {
		r.translator = t
		r.locale = locale
	}
}

// WithMissingTranslationHandler controls the text used when a label key has
// no translation.
func WithMissingTranslationHandler(handler MissingTranslationHandler) Option {
	return func(r *FormRenderer) {
		if handler != nil {
			r.onMissing = handler
		}
	}
}
