package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-simpleform/pkg/tags/templated"
)

// ResolveTheme selects a theme and resolves it into a renderer config. Widget
// partials fall back to the templated builder's defaults, so the config names
// a template for every "forms.<kind>" key.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, ErrNoThemeSelector
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q/%q: %w", name, variant, err)
	}
	if selection == nil {
		return nil, fmt.Errorf("render: theme %q/%q not found", name, variant)
	}

	cfg := selection.RendererTheme(templated.DefaultPartials())
	return &cfg, nil
}

// ThemeClassToken returns the token name holding the default class of a
// widget kind.
func ThemeClassToken(kind string) string {
	return "forms." + kind + ".class"
}

func themeClasses(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil || len(cfg.Tokens) == 0 {
		return nil
	}
	kinds := []string{
		KindForm, KindText, KindFile, KindHidden, KindPassword, KindSubmit,
		KindRadio, KindCheckbox, KindSelect, KindTextarea, KindLabel, KindErrorList,
	}
	out := make(map[string]string)
	for _, kind := range kinds {
		if class := strings.TrimSpace(cfg.Tokens[ThemeClassToken(kind)]); class != "" {
			out[kind] = class
		}
	}
	return out
}
