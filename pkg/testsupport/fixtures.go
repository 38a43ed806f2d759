// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-simpleform/pkg/formstate"
)

// SignupForm returns a submitted sign-up form with one field error.
func SignupForm() *formstate.Form {
	form := formstate.New(formstate.WithData(map[string]any{
		"email": "ada@example.com",
		"plan":  "pro",
	}))
	form.AddError("password", "required")
	return form
}

// StaticCSRF is a CSRF store with a fixed token. An empty token is issued as
// "static-token" on first use.
type StaticCSRF struct {
	Token  string
	Issued int
	Err    error
}

func (s *StaticCSRF) CSRFToken() (string, bool) {
	return s.Token, s.Token != ""
}

func (s *StaticCSRF) NewCSRFToken() (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.Issued++
	if s.Token == "" {
		s.Token = "static-token"
	}
	return s.Token, nil
}

// ErrIssue is a ready-made failure for StaticCSRF.Err.
var ErrIssue = errors.New("testsupport: token store unavailable")

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGoldenString reads a golden file and returns its content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares markup against a golden file, or rewrites the file
// when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := CompareGolden(want, got); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}

// Collect joins rendered fragments with newlines, failing on the first error.
// The result ends with a newline.
func Collect[T ~string](t *testing.T, parts ...func() (T, error)) string {
	t.Helper()
	lines := make([]string, 0, len(parts))
	for i, part := range parts {
		out, err := part()
		if err != nil {
			t.Fatalf("fragment %d: %v", i, err)
		}
		if out != "" {
			lines = append(lines, string(out))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
