package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/validation"
	"github.com/gorilla/schema"
)

const maxUploadSize = 10 << 20

var (
	decoder = newDecoder()
	encoder = schema.NewEncoder()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// field describes one input of a form.
type field struct {
	Name    string
	Label   string
	Kind    string
	Options []string
}

func text(name, label string) field {
	return field{Name: name, Label: label, Kind: "text"}
}

func textarea(name, label string) field {
	return field{Name: name, Label: label, Kind: "textarea"}
}

func number(name, label string) field {
	return field{Name: name, Label: label, Kind: "number"}
}

func checkbox(name, label string) field {
	return field{Name: name, Label: label, Kind: "checkbox"}
}

func file(name, label string) field {
	return field{Name: name, Label: label, Kind: "file"}
}

func withKind(k string, f field) field {
	f.Kind = k
	return f
}

func selectField(name, label string, options ...string) field {
	return field{Name: name, Label: label, Kind: "select", Options: options}
}

type fieldView struct {
	field
	Value   string
	Checked bool
	Error   string
}

// formView is a form as the templates see it.
type formView struct {
	Action    string
	Submit    string
	Next      string
	Multipart bool
	Error     string
	Fields    []fieldView
}

func newFormView(action, submit string, fields []field, values url.Values, errs validation.Errors) *formView {
	fv := &formView{Action: action, Submit: submit}
	for _, f := range fields {
		v := fieldView{field: f, Error: errs[f.Name]}
		if f.Kind == "file" {
			fv.Multipart = true
		} else if values != nil {
			v.Value = values.Get(f.Name)
			v.Checked = f.Kind == "checkbox" && (v.Value == "true" || v.Value == "on")
		}
		fv.Fields = append(fv.Fields, v)
	}
	return fv
}

// decodeForm parses r into dst and returns the raw values for re-rendering.
// Values that cannot be converted come back as validation.Errors.
func decodeForm(r *http.Request, dst any) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	values := normalizeCheckboxes(r.PostForm)
	if err := decoder.Decode(dst, values); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			errs := validation.Errors{}
			for name := range multi {
				errs[name] = "Invalid value"
			}
			return values, errs
		}
		return values, err
	}
	return values, nil
}

// normalizeCheckboxes turns the browser's "on" into something bool parsing
// accepts.
func normalizeCheckboxes(in url.Values) url.Values {
	out := url.Values{}
	for k, vs := range in {
		for _, v := range vs {
			if v == "on" {
				v = "true"
			}
			out.Add(k, v)
		}
	}
	return out
}

// encodeForm turns a form struct back into values for pre-filling.
func encodeForm(src any) url.Values {
	values := url.Values{}
	if err := encoder.Encode(src, values); err != nil {
		return url.Values{}
	}
	return values
}

// multipartPayload copies src into a FormData and attaches the uploaded file
// under fileField. A missing file is an error only when required.
func multipartPayload(r *http.Request, src any, id, fileField string, required bool) (*apiclient.FormData, error) {
	fd := apiclient.NewFormData()
	if id != "" {
		fd.Set("id", id)
	}
	for name, vs := range encodeForm(src) {
		for _, v := range vs {
			fd.Set(name, v)
		}
	}

	upload, header, err := r.FormFile(fileField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		if required {
			return nil, validation.Errors{fileField: "This field is required"}
		}
		return fd, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	defer upload.Close()

	content, err := readUpload(upload, fileField)
	if err != nil {
		return nil, err
	}
	fd.AddFile(apiclient.FileField{
		Field:       fileField,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	return fd, nil
}

func readUpload(f multipart.File, fileField string) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(content) > maxUploadSize {
		return nil, validation.Errors{fileField: "File is too large"}
	}
	return content, nil
}
