package model

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	User *User `json:"user"`
	TokenPair
}
