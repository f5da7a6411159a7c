package entity

import (
	"strings"
	"time"
)

// Role selects the account variant. Every lookup is keyed by (email, role),
// so the same email may exist at most once per role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLead   Role = "lead"
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(s)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleLead:
		return RoleLead, true
	case RoleMember:
		return RoleMember, true
	}
	return "", false
}

// Account is the single record type for all three roles. Role-specific fields
// are populated only on the matching variant: Club and home-club sync apply to
// leads, Permissions and Notifications to admins, club membership lists to
// leads and members.
//
// Invariant: a club name never appears in both SelectedClubs and PendingClubs
// at the same time. The database layer maintains this with guarded $addToSet
// and combined $pull/$addToSet updates.
type Account struct {
	Id                  string         `json:"id" bson:"_id"`
	Role                Role           `json:"role" bson:"role"`
	Name                string         `json:"name" bson:"name"`
	CollegeId           string         `json:"college_id" bson:"college_id"`
	Email               string         `json:"email" bson:"email"`
	MobileNumber        string         `json:"mobile_number,omitempty" bson:"mobile_number"`
	Password            string         `json:"-" bson:"password"`
	Club                string         `json:"club,omitempty" bson:"club,omitempty"`
	SelectedClubs       []string       `json:"selected_clubs" bson:"selected_clubs"`
	PendingClubs        []string       `json:"pending_clubs" bson:"pending_clubs"`
	ParticipatedEvents  []string       `json:"participated_events" bson:"participated_events"`
	Permissions         []string       `json:"permissions,omitempty" bson:"permissions,omitempty"`
	Notifications       []Notification `json:"notifications,omitempty" bson:"notifications,omitempty"`
	UnreadNotifications int            `json:"unread_notifications" bson:"unread_notifications"`
	ImageUrl            string         `json:"image_url,omitempty" bson:"image_url"`
	Location            string         `json:"location,omitempty" bson:"location"`
	CreatedAt           time.Time      `json:"created_at" bson:"created_at"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a *Account) IsLead() bool {
	return a.Role == RoleLead
}

// HasSelected reports whether the account already belongs to the club.
func (a *Account) HasSelected(club string) bool {
	for _, c := range a.SelectedClubs {
		if c == club {
			return true
		}
	}
	return false
}

func (a *Account) HasPending(club string) bool {
	for _, c := range a.PendingClubs {
		if c == club {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an address; all storage and lookups go
// through this so the unique-email rule is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultAdminPermissions are assigned to admin accounts created via signup
// approval.
var DefaultAdminPermissions = []string{"manage-users", "view-reports", "configure-system"}

// Notification is an admin-scoped in-app message. The owning account keeps an
// UnreadNotifications counter equal to the number of unread items.
type Notification struct {
	Id        string    `json:"id" bson:"id"`
	Type      string    `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

const (
	NotificationSignupRequest = "signup-request"
	NotificationClubJoin      = "club-join"
)
