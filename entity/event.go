package entity

import "time"

// Event types. Type is derived from Date on every save and is never accepted
// from the caller as independent truth.
const (
	EventUpcoming = "upcoming"
	EventPast     = "past"
)

// Event carries registration and participation lists cross-referenced against
// accounts by email. RegisteredEmails grows append-only; ParticipatedEmails is
// always a subset of RegisteredEmails.
type Event struct {
	Id                 string    `json:"id" bson:"_id"`
	EventName          string    `json:"eventname" bson:"eventname"`
	Club               string    `json:"club" bson:"club"`
	ClubType           string    `json:"clubtype" bson:"clubtype"`
	Date               time.Time `json:"date" bson:"date"`
	Description        string    `json:"description" bson:"description"`
	Type               string    `json:"type" bson:"type"`
	Image              string    `json:"image,omitempty" bson:"image"`
	RegistrationLink   string    `json:"registration_link,omitempty" bson:"registration_link"`
	RegisteredEmails   []string  `json:"registered_emails" bson:"registered_emails"`
	ParticipatedEmails []string  `json:"participated_emails" bson:"participated_emails"`
	PaymentRequired    bool      `json:"payment_required" bson:"payment_required"`
	RegistrationFee    int64     `json:"registration_fee,omitempty" bson:"registration_fee"`
	DocumentUrl        string    `json:"document_url,omitempty" bson:"document_url"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

// Detail is the denormalized identifier recorded in an account's
// participated_events list when participation is marked.
func (e *Event) Detail() string {
	return e.EventName + "-" + e.Club
}

func (e *Event) IsRegistered(email string) bool {
	for _, r := range e.RegisteredEmails {
		if r == email {
			return true
		}
	}
	return false
}

// ResolveType computes upcoming/past with calendar-day granularity: an event
// dated today is still upcoming.
func ResolveType(date, now time.Time) string {
	y1, m1, d1 := date.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	eventDay := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	if eventDay.Before(today) {
		return EventPast
	}
	return EventUpcoming
}
