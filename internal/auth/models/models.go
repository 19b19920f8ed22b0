package models

// Profile is the locally stored account profile. Login merges the email
// into whatever profile is already stored.
type Profile struct {
	Name     string `json:"name,omitempty" validate:"min=2"`
	Email    string `json:"email,omitempty" validate:"required,email"`
	Contact  string `json:"contact,omitempty"`
	Country  string `json:"country,omitempty" validate:"min=1"`
	Password string `json:"password,omitempty" validate:"min=6"`
}

// LoginResult is returned after the first login step.
type LoginResult struct {
	OK      bool   `json:"ok"`
	OTPSent bool   `json:"otpSent"`
	Email   string `json:"email"`
}

// Session is returned after a successful OTP check.
type Session struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
	Email string `json:"email"`
}
