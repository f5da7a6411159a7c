// Package events manages the event catalogue, registration and participation
// tracking. Participation is recorded on both sides: the event's
// participated_emails list and the account's participated_events list.
package events

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clubconnect/entity"
	"clubconnect/lib/sl"
)

type Database interface {
	SaveEvent(ev *entity.Event) error
	GetEvent(id string) (*entity.Event, error)
	ListEvents() ([]*entity.Event, error)
	ListEventsByClub(club string) ([]*entity.Event, error)
	RegisterEmail(eventId, email string) error
	UnregisterEmail(eventId, email string) error
	SetEventParticipation(eventId, email string, participated bool) error
	GetAccount(email string, role entity.Role) (*entity.Account, error)
	SetParticipatedEvent(email string, role entity.Role, detail string, participated bool) error
	GetClub(name string) (*entity.Club, error)
}

type PaymentLinker interface {
	RegistrationLink(ev *entity.Event, email string, amount int64) (string, error)
}

type Service struct {
	db       Database
	payments PaymentLinker
	now      func() time.Time
	log      *slog.Logger
}

func New(db Database, payments PaymentLinker, log *slog.Logger) *Service {
	return &Service{
		db:       db,
		payments: payments,
		now:      time.Now,
		log:      log.With(sl.Module("events")),
	}
}

// SetClock overrides the time source; used by tests to pin the calendar day.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Add creates an event. The date is accepted as YYYY-MM-DD or RFC 3339 and
// the upcoming/past type is derived from it, never taken from the caller.
func (s *Service) Add(req *entity.AddEventRequest) (*entity.Event, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	if !entity.IsValidClubType(req.ClubType) {
		return nil, fmt.Errorf("%w: invalid club type %q", entity.ErrValidation, req.ClubType)
	}
	if _, err = s.db.GetClub(req.Club); err != nil {
		return nil, fmt.Errorf("%w: unknown club %q", entity.ErrValidation, req.Club)
	}
	if req.PaymentRequired && req.RegistrationFee <= 0 {
		return nil, fmt.Errorf("%w: registration fee is required when payment is enabled", entity.ErrValidation)
	}

	now := s.now().UTC()
	ev := &entity.Event{
		Id:                 uuid.NewString(),
		EventName:          req.EventName,
		Club:               req.Club,
		ClubType:           req.ClubType,
		Date:               date,
		Description:        req.Description,
		Type:               entity.ResolveType(date, now),
		Image:              req.Image,
		RegistrationLink:   req.RegistrationLink,
		RegisteredEmails:   []string{},
		ParticipatedEmails: []string{},
		PaymentRequired:    req.PaymentRequired,
		RegistrationFee:    req.RegistrationFee,
		DocumentUrl:        req.DocumentUrl,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err = s.db.SaveEvent(ev); err != nil {
		return nil, err
	}
	s.log.Info("event created", slog.String("event_id", ev.Id), slog.String("detail", ev.Detail()))
	return ev, nil
}

func (s *Service) Get(id string) (*entity.Event, error) {
	ev, err := s.db.GetEvent(id)
	if err != nil {
		return nil, err
	}
	return s.refresh(ev), nil
}

func (s *Service) All() ([]*entity.Event, error) {
	return s.refreshAll(s.db.ListEvents())
}

func (s *Service) ByClub(club string) ([]*entity.Event, error) {
	return s.refreshAll(s.db.ListEventsByClub(club))
}

func (s *Service) Upcoming() ([]*entity.Event, error) {
	events, err := s.refreshAll(s.db.ListEvents())
	if err != nil {
		return nil, err
	}
	return filterType(events, entity.EventUpcoming), nil
}

func (s *Service) Past() ([]*entity.Event, error) {
	events, err := s.refreshAll(s.db.ListEvents())
	if err != nil {
		return nil, err
	}
	return filterType(events, entity.EventPast), nil
}

// refresh recomputes the stored type when the calendar has moved past the
// event since the last write.
func (s *Service) refresh(ev *entity.Event) *entity.Event {
	current := entity.ResolveType(ev.Date, s.now())
	if current == ev.Type {
		return ev
	}
	ev.Type = current
	ev.UpdatedAt = s.now().UTC()
	if err := s.db.SaveEvent(ev); err != nil {
		s.log.Warn("event type refresh failed", slog.String("event_id", ev.Id), sl.Err(err))
	}
	return ev
}

func (s *Service) refreshAll(events []*entity.Event, err error) ([]*entity.Event, error) {
	if err != nil {
		return nil, err
	}
	for i, ev := range events {
		events[i] = s.refresh(ev)
	}
	return events, nil
}

func filterType(events []*entity.Event, eventType string) []*entity.Event {
	out := make([]*entity.Event, 0, len(events))
	for _, ev := range events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// Register adds the email to the event's registration list. For paid events
// the returned link is a Stripe checkout URL for the registration fee.
func (s *Service) Register(eventId, email string) (paymentLink string, err error) {
	email = entity.NormalizeEmail(email)
	ev, err := s.db.GetEvent(eventId)
	if err != nil {
		return "", err
	}
	if err = s.db.RegisterEmail(eventId, email); err != nil {
		return "", err
	}
	s.log.Info("registration recorded", slog.String("event_id", eventId), sl.Secret("email", email))

	if !ev.PaymentRequired || s.payments == nil {
		return "", nil
	}
	link, err := s.payments.RegistrationLink(ev, email, ev.RegistrationFee)
	if err != nil {
		// Registration stands; the fee can be collected separately.
		s.log.Warn("payment link failed", slog.String("event_id", eventId), sl.Err(err))
		return "", nil
	}
	return link, nil
}

// Unregister removes the email from both event lists; absent emails are a
// no-op.
func (s *Service) Unregister(eventId, email string) error {
	return s.db.UnregisterEmail(eventId, entity.NormalizeEmail(email))
}

// MarkParticipation sets or clears participation on both the event and the
// named account. The account must already be registered for the event.
func (s *Service) MarkParticipation(eventId, email, role string, participated bool) error {
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return fmt.Errorf("%w: invalid role", entity.ErrValidation)
	}
	email = entity.NormalizeEmail(email)

	ev, err := s.db.GetEvent(eventId)
	if err != nil {
		return err
	}
	if !ev.IsRegistered(email) {
		return entity.ErrNotRegistered
	}
	if _, err = s.db.GetAccount(email, parsedRole); err != nil {
		return err
	}

	if err = s.db.SetEventParticipation(eventId, email, participated); err != nil {
		return err
	}
	return s.db.SetParticipatedEvent(email, parsedRole, ev.Detail(), participated)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD or RFC 3339", value)
}
