package render

import "errors"

var (
	// ErrNoCSRFStore is returned by CSRF helpers when the renderer was built
	// without a session capability.
	ErrNoCSRFStore = errors.New("render: csrf store not configured")
	// ErrMissingTranslator is reported to MissingTranslationHandler when a
	// translation is requested without a translator.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrNoThemeSelector is returned by ResolveTheme when selector is nil.
	ErrNoThemeSelector = errors.New("render: theme selector is required")
)
