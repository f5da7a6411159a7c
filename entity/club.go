package entity

import "time"

// Club categories.
const (
	ClubCultural  = "Cultural"
	ClubTechnical = "Technical"
	ClubSports    = "Sports"
	ClubOther     = "Other"
)

func IsValidClubType(t string) bool {
	switch t {
	case ClubCultural, ClubTechnical, ClubSports, ClubOther:
		return true
	}
	return false
}

// ClubLabel is a free-form key/value attached to a club page.
type ClubLabel struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// Club is a directory record. Club names referenced by accounts and events are
// validated against this directory.
type Club struct {
	Name        string      `json:"name" bson:"_id"`
	Type        string      `json:"type" bson:"type"`
	Logo        string      `json:"logo,omitempty" bson:"logo"`
	Description string      `json:"description,omitempty" bson:"description"`
	Labels      []ClubLabel `json:"labels" bson:"labels"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}
