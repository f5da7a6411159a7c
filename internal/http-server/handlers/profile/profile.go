package profile

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
	Profile(email, role string) (*entity.Account, error)
	UpdateProfile(req *entity.UpdateProfileRequest) (*entity.Account, error)
	UpdateImage(email, imageUrl string) error
	RequestDeleteOtp(email, role string) error
	DeleteAccount(email, role, otp string) error
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.profile"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func bindError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Error("bind request", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
}

func serviceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string, err error) {
	log.Error(action, sl.Err(err))
	render.Status(r, status.Code(err))
	render.JSON(w, r, response.Error(status.Message(err)))
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		email := chi.URLParam(r, "email")
		role := chi.URLParam(r, "role")

		acc, err := handler.Profile(email, role)
		if err != nil {
			serviceError(w, r, l, "get profile", err)
			return
		}

		render.JSON(w, r, response.Ok(acc))
	}
}

// Update applies partial profile changes. The session account must match the
// target unless the actor is an admin.
func Update(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.UpdateProfileRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		actor := cont.GetAccount(r.Context())
		if !actor.IsAdmin() && actor.Email != entity.NormalizeEmail(req.Email) {
			l.Error("profile update denied", sl.Secret("actor", actor.Email))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("You can only update your own profile"))
			return
		}

		acc, err := handler.UpdateProfile(&req)
		if err != nil {
			serviceError(w, r, l, "update profile", err)
			return
		}
		l.Info("profile updated", sl.Secret("email", req.Email))

		render.JSON(w, r, response.Ok(acc))
	}
}

// UpdateImage replaces the avatar on every role variant of the account in
// the path. The session account must match unless the actor is an admin.
func UpdateImage(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.UpdateImageRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		email := entity.NormalizeEmail(chi.URLParam(r, "email"))
		actor := cont.GetAccount(r.Context())
		if !actor.IsAdmin() && actor.Email != email {
			l.Error("image update denied", sl.Secret("actor", actor.Email))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("You can only update your own profile"))
			return
		}

		if err := handler.UpdateImage(email, req.ImageUrl); err != nil {
			serviceError(w, r, l, "update image", err)
			return
		}
		l.Info("profile image updated", sl.Secret("email", email))

		render.JSON(w, r, response.Ok("Profile image updated"))
	}
}

func DeleteOtp(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.DeleteOtpRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		actor := cont.GetAccount(r.Context())
		if actor.Email != entity.NormalizeEmail(req.Email) {
			l.Error("delete otp denied", sl.Secret("actor", actor.Email))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("You can only delete your own account"))
			return
		}

		if err := handler.RequestDeleteOtp(req.Email, req.Role); err != nil {
			serviceError(w, r, l, "delete otp", err)
			return
		}
		l.Debug("deletion otp sent", sl.Secret("email", req.Email))

		render.JSON(w, r, response.Ok("Deletion OTP sent to your email"))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.DeleteAccountRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		actor := cont.GetAccount(r.Context())
		if actor.Email != entity.NormalizeEmail(req.Email) {
			l.Error("delete denied", sl.Secret("actor", actor.Email))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("You can only delete your own account"))
			return
		}

		if err := handler.DeleteAccount(req.Email, req.Role, req.Otp); err != nil {
			serviceError(w, r, l, "delete account", err)
			return
		}
		l.Info("account deleted", sl.Secret("email", req.Email))

		render.JSON(w, r, response.Ok("Account deleted"))
	}
}
