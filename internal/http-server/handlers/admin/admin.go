package admin

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
	AllMembers() ([]*entity.Account, error)
	AllLeads() ([]*entity.Account, error)
	AdminDeleteUser(email, role string) error
	MarkNotificationRead(email, notificationId string) error
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.admin"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func serviceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string, err error) {
	log.Error(action, sl.Err(err))
	render.Status(r, status.Code(err))
	render.JSON(w, r, response.Error(status.Message(err)))
}

func Members(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		members, err := handler.AllMembers()
		if err != nil {
			serviceError(w, r, l, "list members", err)
			return
		}

		render.JSON(w, r, response.Ok(members))
	}
}

func Leads(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		leads, err := handler.AllLeads()
		if err != nil {
			serviceError(w, r, l, "list leads", err)
			return
		}

		render.JSON(w, r, response.Ok(leads))
	}
}

func DeleteUser(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.DeleteUserRequest
		if err := render.Bind(r, &req); err != nil {
			l.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		l = l.With(sl.Secret("email", req.Email), slog.String("role", req.Role))

		if err := handler.AdminDeleteUser(req.Email, req.Role); err != nil {
			serviceError(w, r, l, "delete user", err)
			return
		}
		l.Info("user removed")

		render.JSON(w, r, response.Ok("User deleted"))
	}
}

// Notifications returns the in-app notifications of the session admin.
func Notifications(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := cont.GetAccount(r.Context())

		render.JSON(w, r, response.Ok(map[string]interface{}{
			"notifications": actor.Notifications,
			"unread":        actor.UnreadNotifications,
		}))
	}
}

func MarkNotificationRead(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		id := chi.URLParam(r, "id")
		actor := cont.GetAccount(r.Context())
		l = l.With(sl.Secret("email", actor.Email), slog.String("notification", id))

		if err := handler.MarkNotificationRead(actor.Email, id); err != nil {
			serviceError(w, r, l, "mark notification read", err)
			return
		}
		l.Debug("notification marked read")

		render.JSON(w, r, response.Ok("Notification marked as read"))
	}
}
