package types

type RegisterRequest struct {
	Login                string `json:"login" binding:"required"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"passwordConfirmation" binding:"required"`
	FullName             string `json:"fullName"`
}

// LoginRequest takes either login or email.
type LoginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type NewPasswordRequest struct {
	NewPassword          string `json:"newPassword" binding:"required"`
	PasswordConfirmation string `json:"passwordConfirmation" binding:"required"`
}

// GoogleLoginRequest carries an authorization code or an already issued access token.
type GoogleLoginRequest struct {
	Code        string `json:"code"`
	AccessToken string `json:"accessToken"`
}

type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role" binding:"omitempty,oneof=user admin"`
}
