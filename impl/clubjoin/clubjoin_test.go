package clubjoin_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubconnect/entity"
	"clubconnect/impl/clubjoin"
	"clubconnect/internal/ephemeral"
)

type fakeDB struct {
	accounts map[string]*entity.Account
	clubs    map[string]*entity.Club
	notified []entity.Notification
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		accounts: map[string]*entity.Account{},
		clubs:    map[string]*entity.Club{"IEEE": {Name: "IEEE", Type: entity.ClubTechnical}},
	}
}

func key(email string, role entity.Role) string {
	return email + "|" + string(role)
}

func (f *fakeDB) GetAccount(email string, role entity.Role) (*entity.Account, error) {
	acc, ok := f.accounts[key(email, role)]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return acc, nil
}

func (f *fakeDB) GetClub(name string) (*entity.Club, error) {
	club, ok := f.clubs[name]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return club, nil
}

func (f *fakeDB) AddPendingClub(email string, role entity.Role, club string) error {
	acc, ok := f.accounts[key(email, role)]
	if !ok {
		return entity.ErrNotFound
	}
	if acc.HasSelected(club) {
		return entity.ErrAlreadyMember
	}
	if acc.HasPending(club) {
		return entity.ErrAlreadyPending
	}
	acc.PendingClubs = append(acc.PendingClubs, club)
	return nil
}

func (f *fakeDB) ResolvePendingClub(email string, role entity.Role, club string, approved bool) error {
	acc, ok := f.accounts[key(email, role)]
	if !ok {
		return entity.ErrNotFound
	}
	pending := acc.PendingClubs[:0]
	for _, c := range acc.PendingClubs {
		if c != club {
			pending = append(pending, c)
		}
	}
	acc.PendingClubs = pending
	if approved && !acc.HasSelected(club) {
		acc.SelectedClubs = append(acc.SelectedClubs, club)
	}
	return nil
}

func (f *fakeDB) ListLeadsByHomeClub(club string) ([]*entity.Account, error) {
	var out []*entity.Account
	for _, acc := range f.accounts {
		if acc.Role == entity.RoleLead && acc.Club == club {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (f *fakeDB) ListAccounts(role entity.Role) ([]*entity.Account, error) {
	var out []*entity.Account
	for _, acc := range f.accounts {
		if acc.Role == role {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (f *fakeDB) PushAdminNotification(n entity.Notification) error {
	f.notified = append(f.notified, n)
	return nil
}

type fakeMail struct {
	sent []sentMail
}

type sentMail struct {
	to   []string
	body string
}

func (f *fakeMail) Send(to []string, _ string, body string) error {
	f.sent = append(f.sent, sentMail{to: to, body: body})
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(db *fakeDB, store ephemeral.Store, mail *fakeMail) *clubjoin.Service {
	return clubjoin.New(db, store, mail, "http://localhost:8080", 7*24*time.Hour, discard())
}

// tokenFromMail digs the approval token out of the mailed link.
func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "/approve/")
	require.Greater(t, idx, -1, "mail must contain an approval link")
	rest := body[idx+len("/approve/"):]
	return rest[:strings.Index(rest, "/")]
}

func TestJoinApproveFlow(t *testing.T) {
	db := newFakeDB()
	member := &entity.Account{Email: "asha@gvpce.ac.in", Role: entity.RoleMember, Name: "Asha"}
	lead := &entity.Account{Email: "lead@gvpce.ac.in", Role: entity.RoleLead, Club: "IEEE"}
	db.accounts[key(member.Email, member.Role)] = member
	db.accounts[key(lead.Email, lead.Role)] = lead

	store := ephemeral.NewMemoryStore()
	mail := &fakeMail{}
	svc := newService(db, store, mail)

	_, err := svc.RequestJoin("asha@gvpce.ac.in", "member", "IEEE")
	require.NoError(t, err)
	assert.Equal(t, []string{"IEEE"}, member.PendingClubs)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"lead@gvpce.ac.in"}, mail.sent[0].to)

	token := tokenFromMail(t, mail.sent[0].body)

	_, err = svc.Resolve(lead, token, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"IEEE"}, member.SelectedClubs)
	assert.Empty(t, member.PendingClubs)

	// the token was consumed on first use
	_, err = svc.Resolve(lead, token, true)
	assert.ErrorIs(t, err, entity.ErrTokenExpired)
}

func TestJoinRejectLeavesMembershipUntouched(t *testing.T) {
	db := newFakeDB()
	member := &entity.Account{
		Email: "asha@gvpce.ac.in", Role: entity.RoleMember,
		SelectedClubs: []string{"Rotaract"},
	}
	admin := &entity.Account{Email: "admin@gvpce.ac.in", Role: entity.RoleAdmin}
	db.accounts[key(member.Email, member.Role)] = member
	db.accounts[key(admin.Email, admin.Role)] = admin

	store := ephemeral.NewMemoryStore()
	mail := &fakeMail{}
	svc := newService(db, store, mail)

	_, err := svc.RequestJoin("asha@gvpce.ac.in", "member", "IEEE")
	require.NoError(t, err)
	token := tokenFromMail(t, mail.sent[0].body)

	_, err = svc.Resolve(admin, token, false)
	require.NoError(t, err)
	assert.Empty(t, member.PendingClubs)
	assert.Equal(t, []string{"Rotaract"}, member.SelectedClubs, "rejection must not touch existing memberships")
}

func TestResolveRequiresAuthority(t *testing.T) {
	db := newFakeDB()
	db.clubs["Rotaract"] = &entity.Club{Name: "Rotaract", Type: entity.ClubCultural}
	member := &entity.Account{Email: "asha@gvpce.ac.in", Role: entity.RoleMember}
	ieeeLead := &entity.Account{Email: "lead@gvpce.ac.in", Role: entity.RoleLead, Club: "IEEE"}
	otherLead := &entity.Account{Email: "other@gvpce.ac.in", Role: entity.RoleLead, Club: "Rotaract"}
	db.accounts[key(member.Email, member.Role)] = member
	db.accounts[key(ieeeLead.Email, ieeeLead.Role)] = ieeeLead
	db.accounts[key(otherLead.Email, otherLead.Role)] = otherLead

	store := ephemeral.NewMemoryStore()
	mail := &fakeMail{}
	svc := newService(db, store, mail)

	_, err := svc.RequestJoin("asha@gvpce.ac.in", "member", "IEEE")
	require.NoError(t, err)
	token := tokenFromMail(t, mail.sent[0].body)

	// a lead of a different club may not resolve the token
	_, err = svc.Resolve(otherLead, token, true)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	// a failed authorization must not consume the token
	_, err = svc.Resolve(ieeeLead, token, true)
	assert.NoError(t, err)
}

func TestJoinConflicts(t *testing.T) {
	db := newFakeDB()
	member := &entity.Account{
		Email: "asha@gvpce.ac.in", Role: entity.RoleMember,
		SelectedClubs: []string{"IEEE"},
	}
	db.accounts[key(member.Email, member.Role)] = member
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	_, err := svc.RequestJoin("asha@gvpce.ac.in", "member", "IEEE")
	assert.ErrorIs(t, err, entity.ErrAlreadyMember)

	member.SelectedClubs = nil
	member.PendingClubs = []string{"IEEE"}
	_, err = svc.RequestJoin("asha@gvpce.ac.in", "member", "IEEE")
	assert.ErrorIs(t, err, entity.ErrAlreadyPending)
}

func TestLeadCannotJoinHomeClub(t *testing.T) {
	db := newFakeDB()
	lead := &entity.Account{Email: "lead@gvpce.ac.in", Role: entity.RoleLead, Club: "IEEE"}
	db.accounts[key(lead.Email, lead.Role)] = lead
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	_, err := svc.RequestJoin("lead@gvpce.ac.in", "lead", "IEEE")
	assert.ErrorIs(t, err, entity.ErrAlreadyMember)
}

func TestJoinFallsBackToAdmins(t *testing.T) {
	db := newFakeDB()
	member := &entity.Account{Email: "asha@gvpce.ac.in", Role: entity.RoleMember}
	admin := &entity.Account{Email: "admin@gvpce.ac.in", Role: entity.RoleAdmin}
	db.accounts[key(member.Email, member.Role)] = member
	db.accounts[key(admin.Email, admin.Role)] = admin

	mail := &fakeMail{}
	svc := newService(db, ephemeral.NewMemoryStore(), mail)

	_, err := svc.RequestJoin("asha@gvpce.ac.in", "member", "IEEE")
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"admin@gvpce.ac.in"}, mail.sent[0].to, "clubs without leads route to admins")
}
