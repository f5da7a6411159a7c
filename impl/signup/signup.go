// Package signup runs the account-request workflow: OTP-gated verification,
// request submission, and admin approval. Members are created directly;
// admin and lead requests wait in signup_requests until an admin resolves
// them, and exactly one of approve/reject consumes each request.
package signup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clubconnect/entity"
	"clubconnect/internal/ephemeral"
	"clubconnect/lib/random"
	"clubconnect/lib/sl"
	"clubconnect/lib/validate"
)

type Database interface {
	AccountEmailExists(email string) (bool, error)
	SignupRequestEmailExists(email string) (bool, error)
	InsertSignupRequest(req *entity.SignupRequest) error
	GetSignupRequest(id string) (*entity.SignupRequest, error)
	DeleteSignupRequest(id string) error
	ListSignupRequests() ([]*entity.SignupRequest, error)
	InsertAccount(acc *entity.Account) error
	UpsertAccount(acc *entity.Account) error
	ListAccounts(role entity.Role) ([]*entity.Account, error)
	PushAdminNotification(n entity.Notification) error
	GetClub(name string) (*entity.Club, error)
}

type Mailer interface {
	Send(to []string, subject, body string) error
}

type SmsSender interface {
	Send(ctx context.Context, to, body string) error
}

type Service struct {
	db      Database
	store   ephemeral.Store
	mail    Mailer
	sms     SmsSender
	baseUrl string
	otpTTL  time.Duration
	log     *slog.Logger
}

func New(db Database, store ephemeral.Store, mail Mailer, sms SmsSender, baseUrl string, otpTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		db:      db,
		store:   store,
		mail:    mail,
		sms:     sms,
		baseUrl: baseUrl,
		otpTTL:  otpTTL,
		log:     log.With(sl.Module("signup")),
	}
}

// RequestEmailOtp starts (or resends) the email verification challenge.
func (s *Service) RequestEmailOtp(email string) error {
	email = entity.NormalizeEmail(email)
	if !validate.InstitutionalEmail(email) {
		return fmt.Errorf("%w: please use a valid institutional email address", entity.ErrValidation)
	}
	exists, err := s.emailTaken(email)
	if err != nil {
		return err
	}
	if exists {
		return entity.ErrDuplicateAccount
	}

	code := codeFor(s.store, ephemeral.KeySignupOtp(email), s.otpTTL)
	if code == "" {
		return entity.ErrOtpLockout
	}

	body := fmt.Sprintf("Your Club Connect signup verification code is %s. It expires in %d minutes.",
		code, int(s.otpTTL.Minutes()))
	if err = s.mail.Send([]string{email}, "Club Connect - Email Verification OTP", body); err != nil {
		return fmt.Errorf("sending otp mail: %w", err)
	}
	return nil
}

// RequestMobileOtp starts the optional mobile verification challenge.
func (s *Service) RequestMobileOtp(ctx context.Context, number string) error {
	if !validate.MobileNumber(number) {
		return fmt.Errorf("%w: please enter a valid 10-digit mobile number", entity.ErrValidation)
	}
	code := codeFor(s.store, ephemeral.KeyMobileOtp(number), s.otpTTL)
	if code == "" {
		return entity.ErrOtpLockout
	}
	body := fmt.Sprintf("Your Club Connect verification code is %s. It expires in %d minutes.",
		code, int(s.otpTTL.Minutes()))
	if err := s.sms.Send(ctx, number, body); err != nil {
		return fmt.Errorf("sending otp sms: %w", err)
	}
	return nil
}

// VerifyAndSubmit consumes the OTP challenge(s) and either creates a member
// account directly or files a SignupRequest for admin approval.
func (s *Service) VerifyAndSubmit(form *entity.SignupForm) (string, error) {
	email := entity.NormalizeEmail(form.Email)
	if !validate.InstitutionalEmail(email) {
		return "", fmt.Errorf("%w: please use a valid institutional email address", entity.ErrValidation)
	}
	if !validate.MobileNumber(form.MobileNumber) {
		return "", fmt.Errorf("%w: please enter a valid 10-digit mobile number", entity.ErrValidation)
	}
	if !validate.Password(form.Password) {
		return "", fmt.Errorf("%w: password must be at least 8 characters with a letter, a digit and a special character", entity.ErrValidation)
	}
	role, ok := entity.ParseRole(form.Role)
	if !ok {
		return "", fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	if role == entity.RoleLead {
		if form.Club == "" {
			return "", fmt.Errorf("%w: club selection is required for the lead role", entity.ErrValidation)
		}
		if _, err := s.db.GetClub(form.Club); err != nil {
			return "", fmt.Errorf("%w: unknown club %q", entity.ErrValidation, form.Club)
		}
	}

	// One-time use: the email challenge is consumed here, and the mobile
	// challenge too when one was requested for this number.
	if err := ephemeral.VerifyChallenge(s.store, ephemeral.KeySignupOtp(email), form.Otp); err != nil {
		return "", err
	}
	var mobileChallenge entity.OtpChallenge
	if err := s.store.Get(ephemeral.KeyMobileOtp(form.MobileNumber), &mobileChallenge); err == nil {
		if err = ephemeral.VerifyChallenge(s.store, ephemeral.KeyMobileOtp(form.MobileNumber), form.MobileOtp); err != nil {
			return "", err
		}
	}

	// Another signup may have completed with this email while the OTP was
	// in flight.
	exists, err := s.emailTaken(email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", entity.ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if role == entity.RoleMember {
		return s.createMember(form, email, string(hash))
	}
	return s.submitRequest(form, email, string(hash), role)
}

func (s *Service) createMember(form *entity.SignupForm, email, hash string) (string, error) {
	acc := &entity.Account{
		Id:           uuid.NewString(),
		Role:         entity.RoleMember,
		Name:         form.Name,
		CollegeId:    form.CollegeId,
		Email:        email,
		MobileNumber: form.MobileNumber,
		Password:     hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.InsertAccount(acc); err != nil {
		return "", err
	}

	body := fmt.Sprintf("Dear %s,\n\nYour Club Connect account has been created. You can now log in and join clubs.", form.Name)
	if err := s.mail.Send([]string{email}, "Welcome to Club Connect!", body); err != nil {
		s.log.Warn("welcome mail failed", sl.Secret("email", email), sl.Err(err))
	}
	return "Member account created successfully", nil
}

func (s *Service) submitRequest(form *entity.SignupForm, email, hash string, role entity.Role) (string, error) {
	req := &entity.SignupRequest{
		Id:           uuid.NewString(),
		Name:         form.Name,
		CollegeId:    form.CollegeId,
		Email:        email,
		MobileNumber: form.MobileNumber,
		Password:     hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if role == entity.RoleLead {
		req.Club = form.Club
	}
	if err := s.db.InsertSignupRequest(req); err != nil {
		return "", err
	}

	notification := entity.Notification{
		Id:        uuid.NewString(),
		Type:      entity.NotificationSignupRequest,
		Title:     fmt.Sprintf("New %s signup request", role),
		Message:   fmt.Sprintf("%s (%s) requested a %s account", form.Name, email, role),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.PushAdminNotification(notification); err != nil {
		s.log.Warn("pushing admin notification failed", sl.Err(err))
	}

	admins, err := s.db.ListAccounts(entity.RoleAdmin)
	if err != nil {
		s.log.Warn("listing admins failed", sl.Err(err))
	}
	if len(admins) == 0 {
		return fmt.Sprintf("%s signup request submitted, but no admins are registered to approve it yet", role), nil
	}

	to := make([]string, 0, len(admins))
	for _, admin := range admins {
		to = append(to, admin.Email)
	}
	body := fmt.Sprintf(
		"New signup request\n\nName: %s\nEmail: %s\nMobile: %s\nRole: %s\nCollege ID: %s\n",
		form.Name, email, form.MobileNumber, role, form.CollegeId)
	if role == entity.RoleLead {
		body += fmt.Sprintf("Club: %s\n", form.Club)
	}
	body += fmt.Sprintf("\nApprove: %s/api/signup/approve/%s\nReject: %s/api/signup/reject/%s\n",
		s.baseUrl, req.Id, s.baseUrl, req.Id)
	if err = s.mail.Send(to, fmt.Sprintf("Club Connect signup request for %s", role), body); err != nil {
		s.log.Warn("admin notification mail failed", sl.Err(err))
	}

	return fmt.Sprintf("%s signup request submitted successfully. Please wait for admin approval.", role), nil
}

// Approve converts the request into an account, notifies the requester, and
// deletes the request. A second call with the same id reports ErrNotFound.
func (s *Service) Approve(id string) (string, error) {
	req, err := s.db.GetSignupRequest(id)
	if err != nil {
		return "", err
	}

	acc := &entity.Account{
		Id:           uuid.NewString(),
		Role:         req.Role,
		Name:         req.Name,
		CollegeId:    req.CollegeId,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		CreatedAt:    time.Now().UTC(),
	}
	switch req.Role {
	case entity.RoleLead:
		acc.Club = req.Club
	case entity.RoleAdmin:
		acc.Permissions = entity.DefaultAdminPermissions
	}
	if err = s.db.UpsertAccount(acc); err != nil {
		return "", err
	}

	body := fmt.Sprintf("Dear %s,\n\nYour %s account request has been approved. You can now log in.", req.Name, req.Role)
	if req.Role == entity.RoleLead {
		body += fmt.Sprintf("\nClub: %s", req.Club)
	}
	if err = s.mail.Send([]string{req.Email}, "Club Connect - Account Approved", body); err != nil {
		s.log.Warn("approval mail failed", sl.Secret("email", req.Email), sl.Err(err))
	}

	if err = s.db.DeleteSignupRequest(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s account approved and created successfully", req.Role), nil
}

// Reject notifies the requester and deletes the request without creating an
// account.
func (s *Service) Reject(id string) (string, error) {
	req, err := s.db.GetSignupRequest(id)
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf("Dear %s,\n\nWe regret to inform you that your %s account request has been declined.", req.Name, req.Role)
	if err = s.mail.Send([]string{req.Email}, "Club Connect - Account Request Status", body); err != nil {
		s.log.Warn("rejection mail failed", sl.Secret("email", req.Email), sl.Err(err))
	}

	if err = s.db.DeleteSignupRequest(id); err != nil {
		return "", err
	}
	return "Signup request rejected successfully", nil
}

func (s *Service) Pending() ([]*entity.SignupRequest, error) {
	return s.db.ListSignupRequests()
}

// CheckExists reports whether the email is already taken by an account or a
// pending signup request.
func (s *Service) CheckExists(email string) (bool, error) {
	return s.emailTaken(entity.NormalizeEmail(email))
}

func (s *Service) emailTaken(email string) (bool, error) {
	exists, err := s.db.AccountEmailExists(email)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}
	return s.db.SignupRequestEmailExists(email)
}

// codeFor starts a challenge and returns the generated code; empty when the
// resend limit is reached.
func codeFor(store ephemeral.Store, key string, ttl time.Duration) string {
	code := random.Otp()
	if err := ephemeral.StartChallenge(store, key, code, ttl); err != nil {
		return ""
	}
	return code
}
