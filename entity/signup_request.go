package entity

import "time"

// SignupRequest is a pending admin or lead account awaiting administrative
// approval. It is terminal: approve converts it into an Account, reject
// discards it, and in both cases the request document is deleted.
type SignupRequest struct {
	Id           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	CollegeId    string    `json:"college_id" bson:"college_id"`
	Email        string    `json:"email" bson:"email"`
	MobileNumber string    `json:"mobile_number" bson:"mobile_number"`
	Password     string    `json:"-" bson:"password"`
	Role         Role      `json:"role" bson:"role"`
	Club         string    `json:"club,omitempty" bson:"club,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
