package ephemeral

// Key namespaces. Every workflow prefixes its entries so one email can hold
// independent challenges for signup, deletion and password reset.
const (
	prefixSignupOtp = "otp:signup:"
	prefixMobileOtp = "otp:mobile:"
	prefixDeleteOtp = "otp:delete:"
	prefixResetOtp  = "otp:reset:"
	prefixApproval  = "approval:"
)

func KeySignupOtp(email string) string {
	return prefixSignupOtp + email
}

func KeyMobileOtp(number string) string {
	return prefixMobileOtp + number
}

func KeyDeleteOtp(email string) string {
	return prefixDeleteOtp + email
}

func KeyResetOtp(email string) string {
	return prefixResetOtp + email
}

func KeyApproval(token string) string {
	return prefixApproval + token
}
