package signup_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubconnect/entity"
	"clubconnect/impl/signup"
	"clubconnect/internal/ephemeral"
)

type fakeDB struct {
	accounts map[string]*entity.Account
	requests map[string]*entity.SignupRequest
	clubs    map[string]*entity.Club
	notified []entity.Notification
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		accounts: map[string]*entity.Account{},
		requests: map[string]*entity.SignupRequest{},
		clubs:    map[string]*entity.Club{},
	}
}

func accountKey(email string, role entity.Role) string {
	return email + "|" + string(role)
}

func (f *fakeDB) AccountEmailExists(email string) (bool, error) {
	for _, acc := range f.accounts {
		if acc.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) SignupRequestEmailExists(email string) (bool, error) {
	for _, req := range f.requests {
		if req.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) InsertSignupRequest(req *entity.SignupRequest) error {
	f.requests[req.Id] = req
	return nil
}

func (f *fakeDB) GetSignupRequest(id string) (*entity.SignupRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return req, nil
}

func (f *fakeDB) DeleteSignupRequest(id string) error {
	if _, ok := f.requests[id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeDB) ListSignupRequests() ([]*entity.SignupRequest, error) {
	out := make([]*entity.SignupRequest, 0, len(f.requests))
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeDB) InsertAccount(acc *entity.Account) error {
	f.accounts[accountKey(acc.Email, acc.Role)] = acc
	return nil
}

func (f *fakeDB) UpsertAccount(acc *entity.Account) error {
	f.accounts[accountKey(acc.Email, acc.Role)] = acc
	return nil
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

func (f *fakeDB) GetClub(name string) (*entity.Club, error) {
	club, ok := f.clubs[name]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return club, nil
}

type fakeMail struct {
	sent []sentMail
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

func (f *fakeMail) Send(to []string, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeSms struct {
	sent []string
}

func (f *fakeSms) Send(_ context.Context, to, _ string) error {
	f.sent = append(f.sent, to)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(db *fakeDB, store ephemeral.Store, mail *fakeMail) *signup.Service {
	return signup.New(db, store, mail, &fakeSms{}, "http://localhost:8080", 5*time.Minute, discard())
}

func memberForm(otp string) *entity.SignupForm {
	return &entity.SignupForm{
		Name:         "Asha Rao",
		CollegeId:    "21131A0001",
		Email:        "asha@gvpce.ac.in",
		MobileNumber: "9876543210",
		Password:     "Secret@123",
		Role:         "member",
		Otp:          otp,
	}
}

func seedOtp(t *testing.T, store ephemeral.Store, key, code string) {
	t.Helper()
	require.NoError(t, ephemeral.StartChallenge(store, key, code, 5*time.Minute))
}

func TestVerifyAndSubmitMember(t *testing.T) {
	db := newFakeDB()
	store := ephemeral.NewMemoryStore()
	mail := &fakeMail{}
	svc := newService(db, store, mail)

	seedOtp(t, store, ephemeral.KeySignupOtp("asha@gvpce.ac.in"), "482913")

	msg, err := svc.VerifyAndSubmit(memberForm("482913"))
	require.NoError(t, err)
	assert.Contains(t, msg, "Member account created")

	acc := db.accounts[accountKey("asha@gvpce.ac.in", entity.RoleMember)]
	require.NotNil(t, acc)
	assert.NotEqual(t, "Secret@123", acc.Password, "password must be stored hashed")
	assert.Empty(t, db.requests, "members never produce signup requests")

	// welcome mail went to the new member
	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"asha@gvpce.ac.in"}, mail.sent[0].to)
}

func TestVerifyAndSubmitWrongOtp(t *testing.T) {
	db := newFakeDB()
	store := ephemeral.NewMemoryStore()
	svc := newService(db, store, &fakeMail{})

	seedOtp(t, store, ephemeral.KeySignupOtp("asha@gvpce.ac.in"), "482913")

	_, err := svc.VerifyAndSubmit(memberForm("000000"))
	assert.ErrorIs(t, err, entity.ErrOtpInvalid)
	assert.Empty(t, db.accounts)
}

func TestVerifyAndSubmitRejectsOutsideDomain(t *testing.T) {
	svc := newService(newFakeDB(), ephemeral.NewMemoryStore(), &fakeMail{})

	form := memberForm("482913")
	form.Email = "asha@gmail.com"
	_, err := svc.VerifyAndSubmit(form)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestLeadApprovalWorkflow(t *testing.T) {
	db := newFakeDB()
	db.clubs["IEEE"] = &entity.Club{Name: "IEEE", Type: entity.ClubTechnical}
	db.accounts[accountKey("admin@gvpce.ac.in", entity.RoleAdmin)] = &entity.Account{
		Email: "admin@gvpce.ac.in", Role: entity.RoleAdmin,
	}
	store := ephemeral.NewMemoryStore()
	mail := &fakeMail{}
	svc := newService(db, store, mail)

	seedOtp(t, store, ephemeral.KeySignupOtp("lead@gvpce.ac.in"), "482913")

	form := &entity.SignupForm{
		Name:         "Ravi Kumar",
		CollegeId:    "21131A0002",
		Email:        "lead@gvpce.ac.in",
		MobileNumber: "9876543211",
		Password:     "Secret@123",
		Role:         "lead",
		Club:         "IEEE",
		Otp:          "482913",
	}
	msg, err := svc.VerifyAndSubmit(form)
	require.NoError(t, err)
	assert.Contains(t, msg, "wait for admin approval")

	// no account yet, one request, admins notified in-app and by mail
	assert.Nil(t, db.accounts[accountKey("lead@gvpce.ac.in", entity.RoleLead)])
	require.Len(t, db.requests, 1)
	require.Len(t, db.notified, 1)
	assert.Equal(t, entity.NotificationSignupRequest, db.notified[0].Type)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"admin@gvpce.ac.in"}, mail.sent[0].to)

	var requestId string
	for id := range db.requests {
		requestId = id
	}

	_, err = svc.Approve(requestId)
	require.NoError(t, err)

	acc := db.accounts[accountKey("lead@gvpce.ac.in", entity.RoleLead)]
	require.NotNil(t, acc)
	assert.Equal(t, "IEEE", acc.Club)
	assert.Empty(t, db.requests, "approval consumes the request")

	// the request is gone, so resolving it again reports not found
	_, err = svc.Approve(requestId)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	_, err = svc.Reject(requestId)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestLeadRequiresKnownClub(t *testing.T) {
	db := newFakeDB()
	store := ephemeral.NewMemoryStore()
	svc := newService(db, store, &fakeMail{})

	seedOtp(t, store, ephemeral.KeySignupOtp("lead@gvpce.ac.in"), "482913")

	form := &entity.SignupForm{
		Name:         "Ravi Kumar",
		CollegeId:    "21131A0002",
		Email:        "lead@gvpce.ac.in",
		MobileNumber: "9876543211",
		Password:     "Secret@123",
		Role:         "lead",
		Club:         "Chess",
		Otp:          "482913",
	}
	_, err := svc.VerifyAndSubmit(form)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestAdminRequestWithNoAdmins(t *testing.T) {
	db := newFakeDB()
	store := ephemeral.NewMemoryStore()
	svc := newService(db, store, &fakeMail{})

	seedOtp(t, store, ephemeral.KeySignupOtp("first@gvpce.ac.in"), "482913")

	form := &entity.SignupForm{
		Name:         "First Admin",
		CollegeId:    "STAFF001",
		Email:        "first@gvpce.ac.in",
		MobileNumber: "9876543212",
		Password:     "Secret@123",
		Role:         "admin",
		Otp:          "482913",
	}
	msg, err := svc.VerifyAndSubmit(form)
	require.NoError(t, err)
	assert.Contains(t, msg, "no admins are registered")
	assert.Len(t, db.requests, 1, "the request is still filed")
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := newFakeDB()
	db.accounts[accountKey("asha@gvpce.ac.in", entity.RoleMember)] = &entity.Account{
		Email: "asha@gvpce.ac.in", Role: entity.RoleMember,
	}
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	err := svc.RequestEmailOtp("asha@gvpce.ac.in")
	assert.ErrorIs(t, err, entity.ErrDuplicateAccount)

	exists, err := svc.CheckExists("ASHA@gvpce.ac.in")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApprovedAdminGetsDefaultPermissions(t *testing.T) {
	db := newFakeDB()
	db.requests["req-1"] = &entity.SignupRequest{
		Id:    "req-1",
		Name:  "Staff",
		Email: "staff@gvpce.ac.in",
		Role:  entity.RoleAdmin,
	}
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	_, err := svc.Approve("req-1")
	require.NoError(t, err)

	acc := db.accounts[accountKey("staff@gvpce.ac.in", entity.RoleAdmin)]
	require.NotNil(t, acc)
	assert.Equal(t, entity.DefaultAdminPermissions, acc.Permissions)
}
