// Package profile covers account self-service: reading and updating the
// profile, the avatar, OTP-verified account deletion, and the admin views
// over members and leads.
package profile

import (
	"fmt"
	"log/slog"
	"time"

	"clubconnect/entity"
	"clubconnect/internal/ephemeral"
	"clubconnect/lib/random"
	"clubconnect/lib/sl"
	"clubconnect/lib/validate"
)

type Database interface {
	GetAccount(email string, role entity.Role) (*entity.Account, error)
	SetProfileFields(email string, role entity.Role, fields map[string]interface{}) error
	SetImageUrl(email, imageUrl string) error
	DeleteAccount(email string, role entity.Role) error
	ListAccounts(role entity.Role) ([]*entity.Account, error)
	MarkNotificationRead(email, notificationId string) error
}

type Mailer interface {
	Send(to []string, subject, body string) error
}

type Service struct {
	db     Database
	store  ephemeral.Store
	mail   Mailer
	otpTTL time.Duration
	log    *slog.Logger
}

func New(db Database, store ephemeral.Store, mail Mailer, otpTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		db:     db,
		store:  store,
		mail:   mail,
		otpTTL: otpTTL,
		log:    log.With(sl.Module("profile")),
	}
}

func (s *Service) Get(email, role string) (*entity.Account, error) {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	return s.db.GetAccount(email, parsedRole)
}

// Update applies the non-empty fields of the request to the account.
func (s *Service) Update(req *entity.UpdateProfileRequest) (*entity.Account, error) {
	parsedRole, ok := entity.ParseRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.MobileNumber != "" {
		if !validate.MobileNumber(req.MobileNumber) {
			return nil, fmt.Errorf("%w: please enter a valid 10-digit mobile number", entity.ErrValidation)
		}
		fields["mobile_number"] = req.MobileNumber
	}
	if req.Location != "" {
		fields["location"] = req.Location
	}
	if req.ImageUrl != "" {
		fields["image_url"] = req.ImageUrl
	}
	if err := s.db.SetProfileFields(req.Email, parsedRole, fields); err != nil {
		return nil, err
	}
	return s.db.GetAccount(req.Email, parsedRole)
}

// UpdateImage replaces the avatar on every role variant holding the email.
func (s *Service) UpdateImage(email, imageUrl string) error {
	return s.db.SetImageUrl(email, imageUrl)
}

// RequestDeleteOtp mails a confirmation code before the account is removed.
func (s *Service) RequestDeleteOtp(email, role string) error {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	email = entity.NormalizeEmail(email)
	acc, err := s.db.GetAccount(email, parsedRole)
	if err != nil {
		return err
	}
	code := random.Otp()
	if err = ephemeral.StartChallenge(s.store, ephemeral.KeyDeleteOtp(email), code, s.otpTTL); err != nil {
		return err
	}
	body := fmt.Sprintf("Dear %s,\n\nYour account deletion code is %s. It expires in %d minutes.\n\nIf you did not request deletion, change your password immediately.",
		acc.Name, code, int(s.otpTTL.Minutes()))
	if err = s.mail.Send([]string{email}, "Club Connect - Account Deletion OTP", body); err != nil {
		return fmt.Errorf("sending deletion mail: %w", err)
	}
	return nil
}

// DeleteAccount consumes the deletion challenge and removes the (email, role)
// account variant.
func (s *Service) DeleteAccount(email, role, otp string) error {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	email = entity.NormalizeEmail(email)
	if err := ephemeral.VerifyChallenge(s.store, ephemeral.KeyDeleteOtp(email), otp); err != nil {
		return err
	}
	if err := s.db.DeleteAccount(email, parsedRole); err != nil {
		return err
	}
	s.log.Info("account deleted", sl.Secret("email", email), slog.String("role", role))

	if err := s.mail.Send([]string{email}, "Club Connect - Account Deleted",
		"Your account has been deleted. We are sorry to see you go."); err != nil {
		s.log.Warn("deletion mail failed", sl.Secret("email", email), sl.Err(err))
	}
	return nil
}

// AllMembers returns every member account, for the admin dashboard.
func (s *Service) AllMembers() ([]*entity.Account, error) {
	return s.db.ListAccounts(entity.RoleMember)
}

// AllLeads returns every lead account, for the admin dashboard.
func (s *Service) AllLeads() ([]*entity.Account, error) {
	return s.db.ListAccounts(entity.RoleLead)
}

// AdminDeleteUser removes an account without the OTP ceremony; admin-gated at
// the router.
func (s *Service) AdminDeleteUser(email, role string) error {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	if parsedRole == entity.RoleAdmin {
		return fmt.Errorf("%w: admin accounts cannot be deleted here", entity.ErrValidation)
	}
	if err := s.db.DeleteAccount(email, parsedRole); err != nil {
		return err
	}
	s.log.Info("account removed by admin", sl.Secret("email", email), slog.String("role", role))
	return nil
}

// MarkNotificationRead flips one admin notification to read.
func (s *Service) MarkNotificationRead(email, notificationId string) error {
	return s.db.MarkNotificationRead(email, notificationId)
}
