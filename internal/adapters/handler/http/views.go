package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

//go:embed templates/*.html
var templateFiles embed.FS

type indexView struct {
	Questions    []*domain.Question
	EmptyMessage string
}

type detailView struct {
	Question     *domain.Question
	ErrorMessage string
}

type resultsView struct {
	Question *domain.Question
}

// Views renders the public HTML pages.
type Views struct {
	pages map[string]*template.Template
	now   func() time.Time
}

func NewViews(now func() time.Time) (*Views, error) {
	funcs := template.FuncMap{
		"humanTime": func(t time.Time) string {
			return humanize.RelTime(t, now(), "ago", "from now")
		},
		"humanCount": humanize.Comma,
		"pluralize": func(n int64, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"index.html", "detail.html", "results.html"} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFiles, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Views{pages: pages, now: now}, nil
}

// render executes into a buffer first so a template error never leaves a
// half written page behind a 200 status.
func (v *Views) render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := v.pages[name].ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
