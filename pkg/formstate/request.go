package formstate

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
)

// DefaultMaxMemory bounds the in-memory part of multipart parsing.
const DefaultMaxMemory int64 = 32 << 20

// FromRequest builds a Form from the request body (and query string). The
// multipart flag follows the request content type so re-rendered forms keep
// their enctype.
func FromRequest(r *http.Request, maxMemory int64) (*Form, error) {
	if r == nil {
		return nil, errors.New("formstate: request is required")
	}
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	multipart := false
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("formstate: parse content type: %w", err)
		}
		multipart = mediaType == "multipart/form-data"
	}

	if multipart {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("formstate: parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("formstate: parse form: %w", err)
	}

	form := New(WithValues(r.Form), WithMultipart(multipart))
	if multipart && r.MultipartForm != nil {
		for name, files := range r.MultipartForm.File {
			if len(files) > 0 {
				form.Set(name, files[0].Filename)
			}
		}
	}
	return form, nil
}
