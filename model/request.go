package model

// RegisterRequest carries the text fields of the multipart registration form.
type RegisterRequest struct {
	FullName string `json:"fullname" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest accepts either identifier; the service rejects a request carrying neither.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body fallback for clients that do not send cookies.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=5"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullname" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

// PublishVideoRequest carries the text fields of the multipart publish form.
type PublishVideoRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	Duration    float64 `json:"duration" validate:"gte=0"`
}

// UpdateVideoRequest holds the optional fields of a video update; nil means unchanged.
type UpdateVideoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Thumbnail   *string `json:"-"`
}

type ContentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type PlaylistRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
}
