package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
)

// ParseForm parses the request body as form-encoded data.
func ParseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form data")
	}
	return nil
}

// FormValue returns the trimmed form field value.
func FormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// OptionalFormValue returns the trimmed field as a pointer, nil when empty.
// Matches the roster convention of storing absent optional fields as NULL.
func OptionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}
