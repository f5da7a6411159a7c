package entity

import "time"

// OtpChallenge is an ephemeral one-time code keyed by email address or mobile
// number. It lives only in the ephemeral store; restarting the service with
// the in-memory backend invalidates all in-flight verifications.
type OtpChallenge struct {
	Code        string    `json:"code"`
	Expiry      time.Time `json:"expiry"`
	Attempts    int       `json:"attempts"`
	ResendCount int       `json:"resend_count"`
}

func (c *OtpChallenge) Expired(now time.Time) bool {
	return now.After(c.Expiry)
}

// JoinApproval is the payload behind a club-join approval token. The token is
// single-use: resolution deletes it whatever the outcome.
type JoinApproval struct {
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Club      string    `json:"club"`
	Timestamp time.Time `json:"timestamp"`
}
