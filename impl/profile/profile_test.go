package profile_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubconnect/entity"
	"clubconnect/impl/profile"
	"clubconnect/internal/ephemeral"
)

type fakeDB struct {
	accounts map[string]*entity.Account
}

func newFakeDB() *fakeDB {
	return &fakeDB{accounts: map[string]*entity.Account{}}
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

func (f *fakeDB) SetProfileFields(email string, role entity.Role, fields map[string]interface{}) error {
	acc, ok := f.accounts[key(email, role)]
	if !ok {
		return entity.ErrNotFound
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "name":
			acc.Name = s
		case "mobile_number":
			acc.MobileNumber = s
		case "location":
			acc.Location = s
		case "image_url":
			acc.ImageUrl = s
		}
	}
	return nil
}

func (f *fakeDB) SetImageUrl(email, imageUrl string) error {
	found := false
	for _, acc := range f.accounts {
		if acc.Email == email {
			acc.ImageUrl = imageUrl
			found = true
		}
	}
	if !found {
		return entity.ErrNotFound
	}
	return nil
}

func (f *fakeDB) DeleteAccount(email string, role entity.Role) error {
	k := key(email, role)
	if _, ok := f.accounts[k]; !ok {
		return entity.ErrNotFound
	}
	delete(f.accounts, k)
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

func (f *fakeDB) MarkNotificationRead(email, notificationId string) error {
	acc, ok := f.accounts[key(email, entity.RoleAdmin)]
	if !ok {
		return entity.ErrNotFound
	}
	for i := range acc.Notifications {
		if acc.Notifications[i].Id == notificationId && !acc.Notifications[i].Read {
			acc.Notifications[i].Read = true
			acc.UnreadNotifications--
			return nil
		}
	}
	return entity.ErrNotFound
}

type fakeMail struct {
	sent int
}

func (f *fakeMail) Send(_ []string, _, _ string) error {
	f.sent++
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(db *fakeDB, store ephemeral.Store, mail *fakeMail) *profile.Service {
	return profile.New(db, store, mail, 5*time.Minute, discard())
}

func TestUpdatePartialFields(t *testing.T) {
	db := newFakeDB()
	db.accounts[key("asha@gvpce.ac.in", entity.RoleMember)] = &entity.Account{
		Email: "asha@gvpce.ac.in", Role: entity.RoleMember,
		Name: "Asha", Location: "Visakhapatnam",
	}
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	acc, err := svc.Update(&entity.UpdateProfileRequest{
		Email: "asha@gvpce.ac.in",
		Role:  "member",
		Name:  "Asha Rao",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", acc.Name)
	assert.Equal(t, "Visakhapatnam", acc.Location, "untouched fields keep their values")
}

func TestUpdateRejectsBadMobile(t *testing.T) {
	db := newFakeDB()
	db.accounts[key("asha@gvpce.ac.in", entity.RoleMember)] = &entity.Account{
		Email: "asha@gvpce.ac.in", Role: entity.RoleMember,
	}
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	_, err := svc.Update(&entity.UpdateProfileRequest{
		Email:        "asha@gvpce.ac.in",
		Role:         "member",
		MobileNumber: "12345",
	})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestDeleteAccountFlow(t *testing.T) {
	db := newFakeDB()
	db.accounts[key("asha@gvpce.ac.in", entity.RoleMember)] = &entity.Account{
		Email: "asha@gvpce.ac.in", Role: entity.RoleMember, Name: "Asha",
	}
	store := ephemeral.NewMemoryStore()
	mail := &fakeMail{}
	svc := newService(db, store, mail)

	require.NoError(t, svc.RequestDeleteOtp("asha@gvpce.ac.in", "member"))
	require.Equal(t, 1, mail.sent)

	var challenge entity.OtpChallenge
	require.NoError(t, store.Get(ephemeral.KeyDeleteOtp("asha@gvpce.ac.in"), &challenge))

	// wrong code leaves the account alone
	err := svc.DeleteAccount("asha@gvpce.ac.in", "member", "000000")
	assert.ErrorIs(t, err, entity.ErrOtpInvalid)
	assert.Len(t, db.accounts, 1)

	require.NoError(t, svc.DeleteAccount("asha@gvpce.ac.in", "member", challenge.Code))
	assert.Empty(t, db.accounts)
}

func TestDeleteOtpUnknownAccount(t *testing.T) {
	svc := newService(newFakeDB(), ephemeral.NewMemoryStore(), &fakeMail{})
	assert.ErrorIs(t, svc.RequestDeleteOtp("ghost@gvpce.ac.in", "member"), entity.ErrNotFound)
}

func TestAdminDeleteUser(t *testing.T) {
	db := newFakeDB()
	db.accounts[key("asha@gvpce.ac.in", entity.RoleMember)] = &entity.Account{
		Email: "asha@gvpce.ac.in", Role: entity.RoleMember,
	}
	db.accounts[key("root@gvpce.ac.in", entity.RoleAdmin)] = &entity.Account{
		Email: "root@gvpce.ac.in", Role: entity.RoleAdmin,
	}
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	require.NoError(t, svc.AdminDeleteUser("asha@gvpce.ac.in", "member"))
	assert.Nil(t, db.accounts[key("asha@gvpce.ac.in", entity.RoleMember)])

	// admins are not deletable through this path
	err := svc.AdminDeleteUser("root@gvpce.ac.in", "admin")
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestMarkNotificationRead(t *testing.T) {
	db := newFakeDB()
	db.accounts[key("root@gvpce.ac.in", entity.RoleAdmin)] = &entity.Account{
		Email: "root@gvpce.ac.in", Role: entity.RoleAdmin,
		Notifications: []entity.Notification{
			{Id: "n1", Type: entity.NotificationSignupRequest},
		},
		UnreadNotifications: 1,
	}
	svc := newService(db, ephemeral.NewMemoryStore(), &fakeMail{})

	require.NoError(t, svc.MarkNotificationRead("root@gvpce.ac.in", "n1"))
	acc := db.accounts[key("root@gvpce.ac.in", entity.RoleAdmin)]
	assert.True(t, acc.Notifications[0].Read)
	assert.Zero(t, acc.UnreadNotifications)

	// already read: the counter must not go negative
	assert.ErrorIs(t, svc.MarkNotificationRead("root@gvpce.ac.in", "n1"), entity.ErrNotFound)
}
