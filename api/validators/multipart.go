package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
)

// MultipartForm is a parsed multipart request with trimmed field access.
type MultipartForm struct {
	r *http.Request
}

// ParseMultipart parses a multipart body limited to maxBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) (*MultipartForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body too large")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return &MultipartForm{r: r}, nil
}

// Value returns the trimmed field value and whether it was non-empty.
func (f *MultipartForm) Value(key string) (string, bool) {
	v := strings.TrimSpace(f.r.FormValue(key))
	return v, v != ""
}

// Has reports whether the field was sent at all, even empty.
func (f *MultipartForm) Has(key string) bool {
	if f.r.MultipartForm == nil {
		return false
	}
	_, ok := f.r.MultipartForm.Value[key]
	return ok
}

// File returns the uploaded file for key, or nil when absent.
func (f *MultipartForm) File(key string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := f.r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload")
	}
	return file, header, nil
}
