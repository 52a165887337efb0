package request

type StartPasskeyRegistrationRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=200"`
}

type RenamePasskeyRequest struct {
	Label string `json:"label" validate:"required,max=100"`
}

type StartPasskeyLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}
