// Package clubjoin runs the club membership workflow: a member (or lead,
// outside their home club) asks to join, the club's leads get a single-use
// approval token by mail, and resolving the token moves the club out of the
// pending list.
package clubjoin

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clubconnect/entity"
	"clubconnect/internal/ephemeral"
	"clubconnect/lib/random"
	"clubconnect/lib/sl"
)

type Database interface {
	GetAccount(email string, role entity.Role) (*entity.Account, error)
	GetClub(name string) (*entity.Club, error)
	AddPendingClub(email string, role entity.Role, club string) error
	ResolvePendingClub(email string, role entity.Role, club string, approved bool) error
	ListLeadsByHomeClub(club string) ([]*entity.Account, error)
	ListAccounts(role entity.Role) ([]*entity.Account, error)
	PushAdminNotification(n entity.Notification) error
}

type Mailer interface {
	Send(to []string, subject, body string) error
}

type Service struct {
	db       Database
	store    ephemeral.Store
	mail     Mailer
	baseUrl  string
	tokenTTL time.Duration
	log      *slog.Logger
}

func New(db Database, store ephemeral.Store, mail Mailer, baseUrl string, tokenTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		db:       db,
		store:    store,
		mail:     mail,
		baseUrl:  baseUrl,
		tokenTTL: tokenTTL,
		log:      log.With(sl.Module("clubjoin")),
	}
}

// RequestJoin records the club as pending on the account and mails the club's
// leads an approval token. When the club has no leads, the request falls back
// to the admins instead of failing.
func (s *Service) RequestJoin(email, role, club string) (string, error) {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return "", fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	if parsedRole == entity.RoleAdmin {
		return "", fmt.Errorf("%w: admins do not join clubs", entity.ErrValidation)
	}
	email = entity.NormalizeEmail(email)
	if _, err := s.db.GetClub(club); err != nil {
		return "", fmt.Errorf("%w: unknown club %q", entity.ErrValidation, club)
	}
	acc, err := s.db.GetAccount(email, parsedRole)
	if err != nil {
		return "", err
	}
	if acc.IsLead() && acc.Club == club {
		return "", entity.ErrAlreadyMember
	}

	if err = s.db.AddPendingClub(email, parsedRole, club); err != nil {
		return "", err
	}

	token := random.Token()
	approval := entity.JoinApproval{
		Email:     email,
		Role:      parsedRole,
		Club:      club,
		Timestamp: time.Now().UTC(),
	}
	if err = s.store.Put(ephemeral.KeyApproval(token), approval, s.tokenTTL); err != nil {
		return "", err
	}

	notification := entity.Notification{
		Id:        uuid.NewString(),
		Type:      entity.NotificationClubJoin,
		Title:     fmt.Sprintf("Join request for %s", club),
		Message:   fmt.Sprintf("%s (%s) requested to join %s", acc.Name, email, club),
		CreatedAt: time.Now().UTC(),
	}
	if err = s.db.PushAdminNotification(notification); err != nil {
		s.log.Warn("pushing admin notification failed", sl.Err(err))
	}

	to, audience := s.approvers(club)
	if len(to) == 0 {
		s.log.Warn("no approvers for club join request", "club", club)
		return fmt.Sprintf("Request to join %s submitted, awaiting approval", club), nil
	}

	body := fmt.Sprintf(
		"%s (%s, %s) has requested to join %s.\n\nApprove: %s/api/club-selection/approve/%s/true\nReject: %s/api/club-selection/approve/%s/false\n\nThe link is single-use and expires in %d hours.",
		acc.Name, email, parsedRole, club,
		s.baseUrl, token, s.baseUrl, token,
		int(s.tokenTTL.Hours()))
	if err = s.mail.Send(to, fmt.Sprintf("Club Connect - Join request for %s", club), body); err != nil {
		s.log.Warn("approval mail failed", "club", club, "audience", audience, sl.Err(err))
	}
	return fmt.Sprintf("Request to join %s submitted, awaiting approval", club), nil
}

// approvers returns lead addresses for the club, falling back to admins when
// the club has none.
func (s *Service) approvers(club string) ([]string, string) {
	leads, err := s.db.ListLeadsByHomeClub(club)
	if err != nil {
		s.log.Warn("listing leads failed", "club", club, sl.Err(err))
	}
	if len(leads) > 0 {
		to := make([]string, 0, len(leads))
		for _, lead := range leads {
			to = append(to, lead.Email)
		}
		return to, "leads"
	}
	admins, err := s.db.ListAccounts(entity.RoleAdmin)
	if err != nil {
		s.log.Warn("listing admins failed", sl.Err(err))
		return nil, ""
	}
	to := make([]string, 0, len(admins))
	for _, admin := range admins {
		to = append(to, admin.Email)
	}
	return to, "admins"
}

// Resolve consumes the approval token. Only an admin, or a lead of the club
// the token targets, may resolve it; the token is deleted before the account
// update so it can never be replayed.
func (s *Service) Resolve(actor *entity.Account, token string, approved bool) (string, error) {
	var approval entity.JoinApproval
	err := s.store.Get(ephemeral.KeyApproval(token), &approval)
	if errors.Is(err, entity.ErrNotFound) {
		return "", entity.ErrTokenExpired
	}
	if err != nil {
		return "", err
	}

	if !actor.IsAdmin() && !(actor.IsLead() && actor.Club == approval.Club) {
		return "", entity.ErrForbidden
	}

	if err = s.store.Delete(ephemeral.KeyApproval(token)); err != nil {
		return "", err
	}
	if err = s.db.ResolvePendingClub(approval.Email, approval.Role, approval.Club, approved); err != nil {
		return "", err
	}

	var subject, body, result string
	if approved {
		subject = fmt.Sprintf("Club Connect - Welcome to %s", approval.Club)
		body = fmt.Sprintf("Your request to join %s has been approved. Welcome aboard!", approval.Club)
		result = fmt.Sprintf("Membership in %s approved", approval.Club)
	} else {
		subject = "Club Connect - Join request declined"
		body = fmt.Sprintf("Your request to join %s has been declined.", approval.Club)
		result = fmt.Sprintf("Membership in %s rejected", approval.Club)
	}
	if err = s.mail.Send([]string{approval.Email}, subject, body); err != nil {
		s.log.Warn("resolution mail failed", sl.Secret("email", approval.Email), sl.Err(err))
	}
	return result, nil
}

// SelectedClubs returns the approved and pending club lists for the account.
func (s *Service) SelectedClubs(email, role string) (selected, pending []string, err error) {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return nil, nil, fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	acc, err := s.db.GetAccount(email, parsedRole)
	if err != nil {
		return nil, nil, err
	}
	return acc.SelectedClubs, acc.PendingClubs, nil
}
