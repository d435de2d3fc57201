// Package templates renders the read-only HTML views of the registry.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Page wraps body in the shared HTML document
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+` | dicestake</title></head><body><header><a href="/">dicestake</a></header><main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// ErrorPage renders a minimal error document
func ErrorPage(title, message string) templ.Component {
	return Page(title, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1 class="error-title">`+templ.EscapeString(title)+`</h1><p class="error-message">`+
			templ.EscapeString(message)+`</p><p><a href="/">Return to home</a></p>`)
		return err
	}))
}
