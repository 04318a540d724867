package provider

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

type File struct {
	Name string

	Content     []byte
	ContentType string
}

// MimeType returns the declared content type, falling back to the file
// extension and finally to content sniffing.
func (f *File) MimeType() string {
	if f.ContentType != "" {
		if t, _, err := mime.ParseMediaType(f.ContentType); err == nil {
			return t
		}
	}

	if ext := strings.ToLower(path.Ext(f.Name)); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			t, _, _ = strings.Cut(t, ";")
			return t
		}
	}

	t, _, _ := strings.Cut(http.DetectContentType(f.Content), ";")
	return t
}

func (f *File) IsPDF() bool {
	return f.MimeType() == "application/pdf"
}
