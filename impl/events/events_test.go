package events_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubconnect/entity"
	"clubconnect/impl/events"
)

type fakeDB struct {
	events   map[string]*entity.Event
	accounts map[string]*entity.Account
	clubs    map[string]*entity.Club
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		events:   map[string]*entity.Event{},
		accounts: map[string]*entity.Account{},
		clubs:    map[string]*entity.Club{"IEEE": {Name: "IEEE", Type: entity.ClubTechnical}},
	}
}

func key(email string, role entity.Role) string {
	return email + "|" + string(role)
}

func (f *fakeDB) SaveEvent(ev *entity.Event) error {
	copied := *ev
	f.events[ev.Id] = &copied
	return nil
}

func (f *fakeDB) GetEvent(id string) (*entity.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeDB) ListEvents() ([]*entity.Event, error) {
	var out []*entity.Event
	for _, ev := range f.events {
		copied := *ev
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeDB) ListEventsByClub(club string) ([]*entity.Event, error) {
	var out []*entity.Event
	for _, ev := range f.events {
		if ev.Club == club {
			copied := *ev
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeDB) RegisterEmail(eventId, email string) error {
	ev, ok := f.events[eventId]
	if !ok {
		return entity.ErrNotFound
	}
	if ev.IsRegistered(email) {
		return entity.ErrAlreadyRegistered
	}
	ev.RegisteredEmails = append(ev.RegisteredEmails, email)
	return nil
}

func (f *fakeDB) UnregisterEmail(eventId, email string) error {
	ev, ok := f.events[eventId]
	if !ok {
		return entity.ErrNotFound
	}
	ev.RegisteredEmails = remove(ev.RegisteredEmails, email)
	ev.ParticipatedEmails = remove(ev.ParticipatedEmails, email)
	return nil
}

func (f *fakeDB) SetEventParticipation(eventId, email string, participated bool) error {
	ev, ok := f.events[eventId]
	if !ok {
		return entity.ErrNotFound
	}
	if participated {
		for _, e := range ev.ParticipatedEmails {
			if e == email {
				return nil
			}
		}
		ev.ParticipatedEmails = append(ev.ParticipatedEmails, email)
	} else {
		ev.ParticipatedEmails = remove(ev.ParticipatedEmails, email)
	}
	return nil
}

func (f *fakeDB) GetAccount(email string, role entity.Role) (*entity.Account, error) {
	acc, ok := f.accounts[key(email, role)]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return acc, nil
}

func (f *fakeDB) SetParticipatedEvent(email string, role entity.Role, detail string, participated bool) error {
	acc, ok := f.accounts[key(email, role)]
	if !ok {
		return entity.ErrNotFound
	}
	if participated {
		for _, d := range acc.ParticipatedEvents {
			if d == detail {
				return nil
			}
		}
		acc.ParticipatedEvents = append(acc.ParticipatedEvents, detail)
	} else {
		acc.ParticipatedEvents = remove(acc.ParticipatedEvents, detail)
	}
	return nil
}

func (f *fakeDB) GetClub(name string) (*entity.Club, error) {
	club, ok := f.clubs[name]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return club, nil
}

func remove(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

type fakePayments struct {
	calls int
}

func (f *fakePayments) RegistrationLink(_ *entity.Event, _ string, _ int64) (string, error) {
	f.calls++
	return "https://checkout.example/session", nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func newService(db *fakeDB, payments events.PaymentLinker) *events.Service {
	svc := events.New(db, payments, discard())
	svc.SetClock(func() time.Time { return testNow })
	return svc
}

func addRequest(date string) *entity.AddEventRequest {
	return &entity.AddEventRequest{
		EventName:   "Hackathon",
		Club:        "IEEE",
		ClubType:    entity.ClubTechnical,
		Date:        date,
		Description: "24h build sprint",
	}
}

func TestAddDerivesType(t *testing.T) {
	db := newFakeDB()
	svc := newService(db, nil)

	ev, err := svc.Add(addRequest("2025-03-20"))
	require.NoError(t, err)
	assert.Equal(t, entity.EventUpcoming, ev.Type)

	past, err := svc.Add(addRequest("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, entity.EventPast, past.Type)

	sameDay, err := svc.Add(addRequest("2025-03-15"))
	require.NoError(t, err)
	assert.Equal(t, entity.EventUpcoming, sameDay.Type, "events dated today are still upcoming")
}

func TestAddValidation(t *testing.T) {
	svc := newService(newFakeDB(), nil)

	_, err := svc.Add(addRequest("20-03-2025"))
	assert.ErrorIs(t, err, entity.ErrValidation)

	req := addRequest("2025-03-20")
	req.Club = "Chess"
	_, err = svc.Add(req)
	assert.ErrorIs(t, err, entity.ErrValidation)

	req = addRequest("2025-03-20")
	req.PaymentRequired = true
	_, err = svc.Add(req)
	assert.ErrorIs(t, err, entity.ErrValidation, "paid events need a fee")
}

func TestListingsRefreshStaleTypes(t *testing.T) {
	db := newFakeDB()
	svc := newService(db, nil)

	ev, err := svc.Add(addRequest("2025-03-20"))
	require.NoError(t, err)
	require.Equal(t, entity.EventUpcoming, ev.Type)

	// a week passes without any writes to the event
	svc.SetClock(func() time.Time { return testNow.AddDate(0, 0, 7) })

	past, err := svc.Past()
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, entity.EventPast, past[0].Type)

	upcoming, err := svc.Upcoming()
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	// the recomputed type was written back
	stored, err := db.GetEvent(ev.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.EventPast, stored.Type)
}

func TestRegisterIdempotence(t *testing.T) {
	db := newFakeDB()
	svc := newService(db, nil)

	ev, err := svc.Add(addRequest("2025-03-20"))
	require.NoError(t, err)

	link, err := svc.Register(ev.Id, "Asha@gvpce.ac.in")
	require.NoError(t, err)
	assert.Empty(t, link, "free events have no payment link")

	_, err = svc.Register(ev.Id, "asha@gvpce.ac.in")
	assert.ErrorIs(t, err, entity.ErrAlreadyRegistered, "emails are normalized before the duplicate check")

	_, err = svc.Register("missing", "asha@gvpce.ac.in")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRegisterPaidEventReturnsLink(t *testing.T) {
	db := newFakeDB()
	payments := &fakePayments{}
	svc := newService(db, payments)

	req := addRequest("2025-03-20")
	req.PaymentRequired = true
	req.RegistrationFee = 50000
	ev, err := svc.Add(req)
	require.NoError(t, err)

	link, err := svc.Register(ev.Id, "asha@gvpce.ac.in")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/session", link)
	assert.Equal(t, 1, payments.calls)
}

func TestUnregisterIsNoOpForAbsentEmail(t *testing.T) {
	db := newFakeDB()
	svc := newService(db, nil)

	ev, err := svc.Add(addRequest("2025-03-20"))
	require.NoError(t, err)

	assert.NoError(t, svc.Unregister(ev.Id, "never@gvpce.ac.in"))
	assert.ErrorIs(t, svc.Unregister("missing", "never@gvpce.ac.in"), entity.ErrNotFound)
}

func TestMarkParticipationBothSides(t *testing.T) {
	db := newFakeDB()
	member := &entity.Account{Email: "asha@gvpce.ac.in", Role: entity.RoleMember}
	db.accounts[key(member.Email, member.Role)] = member
	svc := newService(db, nil)

	ev, err := svc.Add(addRequest("2025-03-20"))
	require.NoError(t, err)

	// not registered yet
	err = svc.MarkParticipation(ev.Id, "asha@gvpce.ac.in", "member", true)
	assert.ErrorIs(t, err, entity.ErrNotRegistered)

	_, err = svc.Register(ev.Id, "asha@gvpce.ac.in")
	require.NoError(t, err)

	require.NoError(t, svc.MarkParticipation(ev.Id, "asha@gvpce.ac.in", "member", true))
	stored, _ := db.GetEvent(ev.Id)
	assert.Contains(t, stored.ParticipatedEmails, "asha@gvpce.ac.in")
	assert.Contains(t, member.ParticipatedEvents, "Hackathon-IEEE")

	// clearing removes from both sides
	require.NoError(t, svc.MarkParticipation(ev.Id, "asha@gvpce.ac.in", "member", false))
	stored, _ = db.GetEvent(ev.Id)
	assert.NotContains(t, stored.ParticipatedEmails, "asha@gvpce.ac.in")
	assert.NotContains(t, member.ParticipatedEvents, "Hackathon-IEEE")
}

func TestMarkParticipationUnknownAccount(t *testing.T) {
	db := newFakeDB()
	svc := newService(db, nil)

	ev, err := svc.Add(addRequest("2025-03-20"))
	require.NoError(t, err)
	_, err = svc.Register(ev.Id, "ghost@gvpce.ac.in")
	require.NoError(t, err)

	err = svc.MarkParticipation(ev.Id, "ghost@gvpce.ac.in", "member", true)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
