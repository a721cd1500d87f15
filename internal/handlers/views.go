package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login",
	"request_otp",
	"verify_otp",
	"reset_password",
	"dashboard",
	"list",
	"detail",
	"singleton",
	"error",
}

// Views holds one parsed template set per page, each on top of the layout.
type Views struct {
	pages map[string]*template.Template
}

func NewViews(imageHosts []string) (*Views, error) {
	allowed := map[string]bool{}
	for _, h := range imageHosts {
		allowed[strings.ToLower(h)] = true
	}

	funcs := template.FuncMap{
		"imageAllowed": func(src string) bool {
			return imageAllowed(allowed, src)
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
		"add": func(a, b int) int {
			return a + b
		},
	}

	v := &Views{pages: map[string]*template.Template{}}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/form.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (v *Views) Render(w io.Writer, page string, data any) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// imageAllowed accepts same-origin paths and absolute URLs on an allowed host.
func imageAllowed(allowed map[string]bool, src string) bool {
	if src == "" {
		return false
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(u.Path, "/")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	return allowed[strings.ToLower(u.Hostname())]
}
