package dto

// Data Transfer Objects for the email + confirmation code sign-in flow

// SignupRequest: payload for POST /auth/email/
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,username,notme,max=150"`
}

// SignupResponse: returned once the code has been handed to the mailer
type SignupResponse struct {
	Success string `json:"success"`
}

// TokenRequest: payload for POST /auth/token/
type TokenRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: the bearer token for the Authorization header
type TokenResponse struct {
	Token string `json:"token"`
}
