package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
)

// FileField is one uploaded file in a multipart body.
type FileField struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// FormData is an ordered multipart payload.
type FormData struct {
	fields [][2]string
	files  []FileField
}

func NewFormData() *FormData {
	return &FormData{}
}

func (f *FormData) Set(name, value string) *FormData {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

func (f *FormData) SetInt(name string, value int) *FormData {
	return f.Set(name, strconv.Itoa(value))
}

func (f *FormData) SetBool(name string, value bool) *FormData {
	return f.Set(name, strconv.FormatBool(value))
}

func (f *FormData) SetFloat(name string, value float64) *FormData {
	return f.Set(name, strconv.FormatFloat(value, 'f', -1, 64))
}

// AddFile attaches a file; empty content is skipped so edits without a new
// upload keep the existing image.
func (f *FormData) AddFile(file FileField) *FormData {
	if len(file.Content) == 0 {
		return f
	}
	f.files = append(f.files, file)
	return f
}

// Value returns the first value set for name.
func (f *FormData) Value(name string) (string, bool) {
	for _, kv := range f.fields {
		if kv[0] == name {
			return kv[1], true
		}
	}
	return "", false
}

func (f *FormData) Files() []FileField {
	return f.files
}

func (f *FormData) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", kv[0], err)
		}
	}

	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", file.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
