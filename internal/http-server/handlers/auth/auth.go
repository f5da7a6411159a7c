package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"clubconnect/entity"
	"clubconnect/lib/api/response"
	"clubconnect/lib/api/status"
	"clubconnect/lib/sl"
)

type Core interface {
	Login(email, password, role string) (*entity.Account, string, error)
	ForgotPassword(email string) error
	VerifyResetOtp(email, otp string) error
	ResetPassword(email, otp, newPassword string) error
}

// LoginResult pairs the account with its session token.
type LoginResult struct {
	Account *entity.Account `json:"account"`
	Token   string          `json:"token"`
}

func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.auth"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.LoginRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(sl.Secret("email", req.Email), slog.String("role", req.Role))

		acc, token, err := handler.Login(req.Email, req.Password, req.Role)
		if err != nil {
			logger.Error("login", sl.Err(err))
			render.Status(r, status.Code(err))
			render.JSON(w, r, response.Error(status.Message(err)))
			return
		}
		logger.Info("login successful")

		render.JSON(w, r, response.Ok(LoginResult{Account: acc, Token: token}))
	}
}

func ForgotPassword(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.auth"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.ForgotPasswordRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		if err := handler.ForgotPassword(req.Email); err != nil {
			logger.Error("forgot password", sl.Secret("email", req.Email), sl.Err(err))
			render.Status(r, status.Code(err))
			render.JSON(w, r, response.Error(status.Message(err)))
			return
		}
		logger.Debug("reset otp sent", sl.Secret("email", req.Email))

		render.JSON(w, r, response.Ok("Password reset OTP sent to your email"))
	}
}

func VerifyResetOtp(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.auth"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.VerifyOtpRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		if err := handler.VerifyResetOtp(req.Email, req.Otp); err != nil {
			logger.Error("verify reset otp", sl.Secret("email", req.Email), sl.Err(err))
			render.Status(r, status.Code(err))
			render.JSON(w, r, response.Error(status.Message(err)))
			return
		}

		render.JSON(w, r, response.Ok("OTP verified"))
	}
}

func ResetPassword(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.auth"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.ResetPasswordRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		if err := handler.ResetPassword(req.Email, req.Otp, req.NewPassword); err != nil {
			logger.Error("reset password", sl.Secret("email", req.Email), sl.Err(err))
			render.Status(r, status.Code(err))
			render.JSON(w, r, response.Error(status.Message(err)))
			return
		}
		logger.Info("password reset", sl.Secret("email", req.Email))

		render.JSON(w, r, response.Ok("Password has been reset"))
	}
}
