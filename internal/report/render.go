package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	apperrors "gradereport/internal/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render writes the HTML page for v to w
func Render(w io.Writer, v View) error {
	if v == nil {
		return apperrors.NewRenderError("no view to render", nil)
	}

	name := string(v.Kind())
	if pages.Lookup(name) == nil {
		return apperrors.NewRenderError(fmt.Sprintf("unknown page %q", name), nil)
	}

	if err := pages.ExecuteTemplate(w, name, v); err != nil {
		return apperrors.NewRenderError("failed to render page", err).
			WithContext("page", name)
	}
	return nil
}
