package entity

import "errors"

// Error taxonomy shared by services and HTTP handlers. Handlers translate
// these with errors.Is into status codes: validation and OTP failures map to
// 400, NotFound to 404, conflicts to 409. Anything unrecognized is a 500 with
// a generic message.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateAccount = errors.New("account or signup request already exists")
	ErrAlreadyMember    = errors.New("already a member of this club")
	ErrAlreadyPending   = errors.New("club request already pending")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrNotRegistered    = errors.New("not registered for this event")
	ErrOtpExpired       = errors.New("otp expired")
	ErrOtpInvalid       = errors.New("otp invalid")
	ErrOtpLockout       = errors.New("too many incorrect otp attempts")
	ErrTokenExpired     = errors.New("approval token invalid or expired")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrForbidden        = errors.New("operation not permitted for this account")
)

// IsConflict groups the duplicate/already-* errors for handlers that only
// need the 409 classification.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateAccount) ||
		errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrAlreadyPending) ||
		errors.Is(err, ErrAlreadyRegistered)
}
