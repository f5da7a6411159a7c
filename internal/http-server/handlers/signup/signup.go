package signup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"clubconnect/entity"
	"clubconnect/lib/api/response"
	"clubconnect/lib/api/status"
	"clubconnect/lib/sl"
)

type Core interface {
	RequestEmailOtp(email string) error
	RequestMobileOtp(ctx context.Context, number string) error
	VerifyAndSubmit(form *entity.SignupForm) (string, error)
	Pending() ([]*entity.SignupRequest, error)
	Approve(id string) (string, error)
	Reject(id string) (string, error)
	CheckExists(email string) (bool, error)
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.signup"),
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

// SendOtp starts or resends the email verification challenge. Resends go
// through the same endpoint and count against the resend limit.
func SendOtp(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.SendOtpRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}

		if err := handler.RequestEmailOtp(req.Email); err != nil {
			serviceError(w, r, l, "send otp", err)
			return
		}
		l.Debug("signup otp sent", sl.Secret("email", req.Email))

		render.JSON(w, r, response.Ok("OTP sent to your email"))
	}
}

func SendMobileOtp(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.SendMobileOtpRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}

		if err := handler.RequestMobileOtp(r.Context(), req.MobileNumber); err != nil {
			serviceError(w, r, l, "send mobile otp", err)
			return
		}
		l.Debug("mobile otp sent", sl.Secret("number", req.MobileNumber))

		render.JSON(w, r, response.Ok("OTP sent to your mobile number"))
	}
}

// Verify consumes the OTP and submits the signup: members get an account at
// once, admin and lead requests wait for approval.
func Verify(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var form entity.SignupForm
		if err := render.Bind(r, &form); err != nil {
			bindError(w, r, l, err)
			return
		}
		l = l.With(sl.Secret("email", form.Email), slog.String("role", form.Role))

		message, err := handler.VerifyAndSubmit(&form)
		if err != nil {
			serviceError(w, r, l, "verify signup", err)
			return
		}
		l.Info("signup submitted")

		render.JSON(w, r, response.Ok(message))
	}
}

func Pending(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		requests, err := handler.Pending()
		if err != nil {
			serviceError(w, r, l, "list pending", err)
			return
		}

		render.JSON(w, r, response.Ok(requests))
	}
}

func Approve(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		id := chi.URLParam(r, "id")
		l = l.With(slog.String("request", id))

		message, err := handler.Approve(id)
		if err != nil {
			serviceError(w, r, l, "approve signup", err)
			return
		}
		l.Info("signup approved")

		render.JSON(w, r, response.Ok(message))
	}
}

func Reject(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		id := chi.URLParam(r, "id")
		l = l.With(slog.String("request", id))

		message, err := handler.Reject(id)
		if err != nil {
			serviceError(w, r, l, "reject signup", err)
			return
		}
		l.Info("signup rejected")

		render.JSON(w, r, response.Ok(message))
	}
}

// CheckExists lets the signup form flag a taken email before the OTP round.
func CheckExists(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.CheckExistsRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}

		exists, err := handler.CheckExists(req.Email)
		if err != nil {
			serviceError(w, r, l, "check exists", err)
			return
		}

		render.JSON(w, r, response.Ok(map[string]bool{"exists": exists}))
	}
}
