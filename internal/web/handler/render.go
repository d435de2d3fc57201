package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/dicestake/internal/api/apierr"
	"github.com/mcoot/dicestake/internal/web/templates"
)

// render writes an HTML component with the given status
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = c.Render(r.Context(), w)
}

// renderError maps err to a status and renders the error page
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.Status(err)
	desc := apierr.Describe(err)
	render(w, r, status, templates.ErrorPage(http.StatusText(status), desc.Message))
}
