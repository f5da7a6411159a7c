// Package core is the facade the HTTP layer talks to. It fans requests out to
// the workflow services and is the single place where their interfaces meet
// the handler Core interfaces.
package core

import (
	"context"

	"clubconnect/entity"
	"clubconnect/impl/auth"
	"clubconnect/impl/clubjoin"
	"clubconnect/impl/clubs"
	"clubconnect/impl/events"
	"clubconnect/impl/profile"
	"clubconnect/impl/signup"
)

type Core struct {
	auth     *auth.Service
	signup   *signup.Service
	clubjoin *clubjoin.Service
	events   *events.Service
	clubs    *clubs.Service
	profile  *profile.Service
}

func New(auth *auth.Service, signup *signup.Service, clubjoin *clubjoin.Service, events *events.Service, clubs *clubs.Service, profile *profile.Service) *Core {
	return &Core{
		auth:     auth,
		signup:   signup,
		clubjoin: clubjoin,
		events:   events,
		clubs:    clubs,
		profile:  profile,
	}
}

// auth

func (c *Core) Login(email, password, role string) (*entity.Account, string, error) {
	return c.auth.Login(email, password, role)
}

func (c *Core) AuthenticateByToken(token string) (*entity.Account, error) {
	return c.auth.AuthenticateToken(token)
}

func (c *Core) ForgotPassword(email string) error {
	return c.auth.ForgotPassword(email)
}

func (c *Core) VerifyResetOtp(email, otp string) error {
	return c.auth.VerifyResetOtp(email, otp)
}

func (c *Core) ResetPassword(email, otp, newPassword string) error {
	return c.auth.ResetPassword(email, otp, newPassword)
}

// signup

func (c *Core) RequestEmailOtp(email string) error {
	return c.signup.RequestEmailOtp(email)
}

func (c *Core) RequestMobileOtp(ctx context.Context, number string) error {
	return c.signup.RequestMobileOtp(ctx, number)
}

func (c *Core) VerifyAndSubmit(form *entity.SignupForm) (string, error) {
	return c.signup.VerifyAndSubmit(form)
}

func (c *Core) Pending() ([]*entity.SignupRequest, error) {
	return c.signup.Pending()
}

func (c *Core) Approve(id string) (string, error) {
	return c.signup.Approve(id)
}

func (c *Core) Reject(id string) (string, error) {
	return c.signup.Reject(id)
}

func (c *Core) CheckExists(email string) (bool, error) {
	return c.signup.CheckExists(email)
}

// club membership

func (c *Core) RequestJoin(email, role, club string) (string, error) {
	return c.clubjoin.RequestJoin(email, role, club)
}

func (c *Core) ResolveJoin(actor *entity.Account, token string, approved bool) (string, error) {
	return c.clubjoin.Resolve(actor, token, approved)
}

func (c *Core) SelectedClubs(email, role string) (selected, pending []string, err error) {
	return c.clubjoin.SelectedClubs(email, role)
}

// events

func (c *Core) AddEvent(req *entity.AddEventRequest) (*entity.Event, error) {
	return c.events.Add(req)
}

func (c *Core) Event(id string) (*entity.Event, error) {
	return c.events.Get(id)
}

func (c *Core) AllEvents() ([]*entity.Event, error) {
	return c.events.All()
}

func (c *Core) UpcomingEvents() ([]*entity.Event, error) {
	return c.events.Upcoming()
}

func (c *Core) PastEvents() ([]*entity.Event, error) {
	return c.events.Past()
}

func (c *Core) EventsByClub(club string) ([]*entity.Event, error) {
	return c.events.ByClub(club)
}

func (c *Core) RegisterForEvent(eventId, email string) (string, error) {
	return c.events.Register(eventId, email)
}

func (c *Core) UnregisterFromEvent(eventId, email string) error {
	return c.events.Unregister(eventId, email)
}

func (c *Core) MarkParticipation(eventId, email, role string, participated bool) error {
	return c.events.MarkParticipation(eventId, email, role, participated)
}

// club directory

func (c *Core) Club(name string) (*entity.Club, error) {
	return c.clubs.Get(name)
}

func (c *Core) Clubs() ([]*entity.Club, error) {
	return c.clubs.List()
}

func (c *Core) InitClub(req *entity.InitClubRequest) (*entity.Club, error) {
	return c.clubs.Init(req)
}

func (c *Core) UpdateClub(req *entity.UpdateClubRequest) (*entity.Club, error) {
	return c.clubs.Update(req)
}

// profile and admin views

func (c *Core) Profile(email, role string) (*entity.Account, error) {
	return c.profile.Get(email, role)
}

func (c *Core) UpdateProfile(req *entity.UpdateProfileRequest) (*entity.Account, error) {
	return c.profile.Update(req)
}

func (c *Core) UpdateImage(email, imageUrl string) error {
	return c.profile.UpdateImage(email, imageUrl)
}

func (c *Core) RequestDeleteOtp(email, role string) error {
	return c.profile.RequestDeleteOtp(email, role)
}

func (c *Core) DeleteAccount(email, role, otp string) error {
	return c.profile.DeleteAccount(email, role, otp)
}

func (c *Core) AllMembers() ([]*entity.Account, error) {
	return c.profile.AllMembers()
}

func (c *Core) AllLeads() ([]*entity.Account, error) {
	return c.profile.AllLeads()
}

func (c *Core) AdminDeleteUser(email, role string) error {
	return c.profile.AdminDeleteUser(email, role)
}

func (c *Core) MarkNotificationRead(email, notificationId string) error {
	return c.profile.MarkNotificationRead(email, notificationId)
}
