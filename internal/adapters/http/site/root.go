// Package site serves the embedded staffing prediction web form.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the embedded web form to r. The form is served at / and
// its assets next to it.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	files := http.FileServer(FS())
	r.Handle("/", files)
	r.Handle("/assets/*", files)
}
