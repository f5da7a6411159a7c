package validate

import "regexp"

var (
	institutionalEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gvpce\.ac\.in$`)
	mobileNumber       = regexp.MustCompile(`^[6-9]\d{9}$`)
	passwordLetter     = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit      = regexp.MustCompile(`\d`)
	passwordSpecial    = regexp.MustCompile(`[!@#$%^&*]`)
)

// InstitutionalEmail reports whether the address belongs to the college
// domain. Signup is restricted to these addresses.
func InstitutionalEmail(email string) bool {
	return institutionalEmail.MatchString(email)
}

// MobileNumber accepts 10-digit Indian mobile numbers.
func MobileNumber(number string) bool {
	return mobileNumber.MatchString(number)
}

// Password requires at least 8 characters with a letter, a digit and a
// special character.
func Password(password string) bool {
	return len(password) >= 8 &&
		passwordLetter.MatchString(password) &&
		passwordDigit.MatchString(password) &&
		passwordSpecial.MatchString(password)
}
