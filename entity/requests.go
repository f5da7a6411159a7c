package entity

import (
	"net/http"

	"clubconnect/lib/validate"
)

// Request payloads bound by the HTTP layer. Validation runs inside Bind so
// handlers get a fully-checked value or a render error.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

func (r *LoginRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type SendOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *SendOtpRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type SendMobileOtpRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
}

func (r *SendMobileOtpRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

// SignupForm carries the full verify-and-submit payload. MobileOtp is
// consumed only when a mobile challenge exists for the number.
type SignupForm struct {
	Name         string `json:"name" validate:"required"`
	CollegeId    string `json:"college_id" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Role         string `json:"role" validate:"required"`
	Club         string `json:"club,omitempty"`
	Otp          string `json:"otp" validate:"required"`
	MobileOtp    string `json:"mobile_otp,omitempty"`
}

func (r *SignupForm) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type CheckExistsRequest struct {
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number,omitempty"`
}

func (r *CheckExistsRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type SelectClubRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"required"`
	SelectedClub string `json:"selected_club" validate:"required"`
}

func (r *SelectClubRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type AddEventRequest struct {
	EventName        string `json:"eventname" validate:"required"`
	Club             string `json:"club" validate:"required"`
	ClubType         string `json:"clubtype" validate:"required"`
	Date             string `json:"date" validate:"required"`
	Description      string `json:"description" validate:"required"`
	Image            string `json:"image,omitempty"`
	RegistrationLink string `json:"registration_link,omitempty"`
	PaymentRequired  bool   `json:"payment_required,omitempty"`
	RegistrationFee  int64  `json:"registration_fee,omitempty"`
	DocumentUrl      string `json:"document_url,omitempty"`
}

func (r *AddEventRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type EventRegistrationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *EventRegistrationRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

// ParticipationRequest requires the caller to name the role explicitly; the
// account lookup is never guessed from the email alone.
type ParticipationRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"required"`
	Participated *bool  `json:"participated" validate:"required"`
}

func (r *ParticipationRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type UpdateProfileRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"required"`
	Name         string `json:"name,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	Location     string `json:"location,omitempty"`
	ImageUrl     string `json:"image_url,omitempty"`
}

func (r *UpdateProfileRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type UpdateImageRequest struct {
	ImageUrl string `json:"image_url" validate:"required"`
}

func (r *UpdateImageRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type DeleteOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

func (r *DeleteOtpRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type DeleteAccountRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
	Otp   string `json:"otp" validate:"required"`
}

func (r *DeleteAccountRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required"`
}

func (r *VerifyOtpRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (r *ResetPasswordRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type InitClubRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (r *InitClubRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type UpdateClubRequest struct {
	ClubName    string      `json:"club_name" validate:"required"`
	Logo        *string     `json:"logo,omitempty"`
	Description *string     `json:"description,omitempty"`
	Labels      []ClubLabel `json:"labels,omitempty"`
}

func (r *UpdateClubRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type DeleteUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

func (r *DeleteUserRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}
