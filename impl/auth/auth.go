// Package auth handles login, bearer-token sessions and the password reset
// workflow.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"clubconnect/entity"
	"clubconnect/internal/ephemeral"
	"clubconnect/lib/random"
	"clubconnect/lib/sl"
	"clubconnect/lib/validate"
)

type Database interface {
	GetAccount(email string, role entity.Role) (*entity.Account, error)
	FindAccountByEmail(email string) (*entity.Account, error)
	EnsureSelectedClub(email string, role entity.Role, club string) error
	SetPassword(email, hash string) error
}

type Mailer interface {
	Send(to []string, subject, body string) error
}

type Service struct {
	db          Database
	store       ephemeral.Store
	mail        Mailer
	jwtSecret   []byte
	tokenTTL    time.Duration
	resetOtpTTL time.Duration
	log         *slog.Logger
}

func New(db Database, store ephemeral.Store, mail Mailer, jwtSecret string, tokenTTL, resetOtpTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		db:          db,
		store:       store,
		mail:        mail,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		resetOtpTTL: resetOtpTTL,
		log:         log.With(sl.Module("auth")),
	}
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the credentials for the (email, role) account variant and
// issues a signed bearer token. A lead's home club is synced into its
// selected clubs here, so the membership list is correct from the first
// session onwards.
func (s *Service) Login(email, password, role string) (*entity.Account, string, error) {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return nil, "", fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	acc, err := s.db.GetAccount(email, parsedRole)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, "", entity.ErrInvalidPassword
	}
	if err != nil {
		return nil, "", err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)); err != nil {
		return nil, "", entity.ErrInvalidPassword
	}

	if acc.IsLead() && acc.Club != "" && !acc.HasSelected(acc.Club) {
		if err = s.db.EnsureSelectedClub(acc.Email, acc.Role, acc.Club); err != nil {
			s.log.Warn("home club sync failed", sl.Secret("email", acc.Email), sl.Err(err))
		} else {
			acc.SelectedClubs = append(acc.SelectedClubs, acc.Club)
		}
	}

	token, err := s.issueToken(acc)
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

func (s *Service) issueToken(acc *entity.Account) (string, error) {
	now := time.Now()
	c := claims{
		Email: acc.Email,
		Role:  string(acc.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// AuthenticateToken parses the bearer token and loads the account it names.
func (s *Service) AuthenticateToken(tokenString string) (*entity.Account, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, entity.ErrTokenExpired
	}
	role, ok := entity.ParseRole(c.Role)
	if !ok {
		return nil, entity.ErrTokenExpired
	}
	return s.db.GetAccount(c.Email, role)
}

// ForgotPassword starts the reset challenge for any account holding the email.
// The reset applies to every role variant, so finding one match is enough.
func (s *Service) ForgotPassword(email string) error {
	email = entity.NormalizeEmail(email)
	if _, err := s.db.FindAccountByEmail(email); err != nil {
		return err
	}
	code := random.Otp()
	if err := ephemeral.StartChallenge(s.store, ephemeral.KeyResetOtp(email), code, s.resetOtpTTL); err != nil {
		return err
	}
	body := fmt.Sprintf("Your Club Connect password reset code is %s. It expires in %d minutes.\n\nIf you did not request a reset, ignore this mail.",
		code, int(s.resetOtpTTL.Minutes()))
	if err := s.mail.Send([]string{email}, "Club Connect - Password Reset OTP", body); err != nil {
		return fmt.Errorf("sending reset mail: %w", err)
	}
	return nil
}

// VerifyResetOtp checks the code without consuming it; the challenge stays
// alive for the ResetPassword call that follows.
func (s *Service) VerifyResetOtp(email, otp string) error {
	return ephemeral.PeekChallenge(s.store, ephemeral.KeyResetOtp(entity.NormalizeEmail(email)), otp)
}

// ResetPassword consumes the challenge and replaces the password hash on
// every account variant with the email.
func (s *Service) ResetPassword(email, otp, newPassword string) error {
	email = entity.NormalizeEmail(email)
	if !validate.Password(newPassword) {
		return fmt.Errorf("%w: password must be at least 8 characters with a letter, a digit and a special character", entity.ErrValidation)
	}
	if err := ephemeral.VerifyChallenge(s.store, ephemeral.KeyResetOtp(email), otp); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.db.SetPassword(email, string(hash))
}
