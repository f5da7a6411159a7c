package clubselection

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"clubconnect/entity"
	"clubconnect/lib/api/cont"
	"clubconnect/lib/api/response"
	"clubconnect/lib/api/status"
	"clubconnect/lib/sl"
)

type Core interface {
	RequestJoin(email, role, club string) (string, error)
	ResolveJoin(actor *entity.Account, token string, approved bool) (string, error)
	SelectedClubs(email, role string) (selected, pending []string, err error)
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.clubselection"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func serviceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string, err error) {
	log.Error(action, sl.Err(err))
	render.Status(r, status.Code(err))
	render.JSON(w, r, response.Error(status.Message(err)))
}

func Select(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.SelectClubRequest
		if err := render.Bind(r, &req); err != nil {
			l.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		l = l.With(sl.Secret("email", req.Email), slog.String("club", req.SelectedClub))

		message, err := handler.RequestJoin(req.Email, req.Role, req.SelectedClub)
		if err != nil {
			serviceError(w, r, l, "select club", err)
			return
		}
		l.Info("join request submitted")

		render.JSON(w, r, response.Ok(message))
	}
}

// Approve resolves a join token. The acting account comes from the bearer
// session; the service rejects actors without authority over the club.
func Approve(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		token := chi.URLParam(r, "token")
		approved := chi.URLParam(r, "approved") == "true"
		actor := cont.GetAccount(r.Context())
		l = l.With(sl.Secret("actor", actor.Email), slog.Bool("approved", approved))

		message, err := handler.ResolveJoin(actor, token, approved)
		if err != nil {
			serviceError(w, r, l, "resolve join", err)
			return
		}
		l.Info("join request resolved")

		render.JSON(w, r, response.Ok(message))
	}
}

func SelectedClubs(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		email := chi.URLParam(r, "email")
		role := chi.URLParam(r, "role")

		selected, pending, err := handler.SelectedClubs(email, role)
		if err != nil {
			serviceError(w, r, l, "selected clubs", err)
			return
		}

		render.JSON(w, r, response.Ok(map[string][]string{
			"selected_clubs": selected,
			"pending_clubs":  pending,
		}))
	}
}
