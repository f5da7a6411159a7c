package clubs

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
	Club(name string) (*entity.Club, error)
	Clubs() ([]*entity.Club, error)
	InitClub(req *entity.InitClubRequest) (*entity.Club, error)
	UpdateClub(req *entity.UpdateClubRequest) (*entity.Club, error)
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.clubs"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func serviceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string, err error) {
	log.Error(action, sl.Err(err))
	render.Status(r, status.Code(err))
	render.JSON(w, r, response.Error(status.Message(err)))
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		clubs, err := handler.Clubs()
		if err != nil {
			serviceError(w, r, l, "list clubs", err)
			return
		}

		render.JSON(w, r, response.Ok(clubs))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		name := chi.URLParam(r, "name")
		club, err := handler.Club(name)
		if err != nil {
			serviceError(w, r, l, "get club", err)
			return
		}

		render.JSON(w, r, response.Ok(club))
	}
}

func Init(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.InitClubRequest
		if err := render.Bind(r, &req); err != nil {
			l.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		club, err := handler.InitClub(&req)
		if err != nil {
			serviceError(w, r, l, "init club", err)
			return
		}
		l.Info("club registered", slog.String("club", club.Name))

		render.JSON(w, r, response.Ok(club))
	}
}

// Update edits a club page. Leads may only edit their own club.
func Update(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.UpdateClubRequest
		if err := render.Bind(r, &req); err != nil {
			l.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		actor := cont.GetAccount(r.Context())
		if !actor.IsAdmin() && !(actor.IsLead() && actor.Club == req.ClubName) {
			l.Error("club update denied", sl.Secret("actor", actor.Email), slog.String("club", req.ClubName))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("You can only update your own club"))
			return
		}

		club, err := handler.UpdateClub(&req)
		if err != nil {
			serviceError(w, r, l, "update club", err)
			return
		}
		l.Info("club updated", slog.String("club", club.Name))

		render.JSON(w, r, response.Ok(club))
	}
}
