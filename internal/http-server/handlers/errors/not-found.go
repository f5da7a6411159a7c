package errors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"clubconnect/lib/api/response"
	"clubconnect/lib/sl"
)

func NotFound(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("resource not found",
			sl.Module("http.handlers.errors"),
			slog.String("path", r.URL.Path))

		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Requested resource not found"))
	}
}
