package dto

// LoginRequest is the body of the first login step.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPRequest is the body of the one-time code check.
type OTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// StatusResponse reports whether a session token is stored.
type StatusResponse struct {
	Authenticated bool `json:"authenticated"`
}
