package models

// TokenPair is the JWT pair returned to clients after login or refresh.
// ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// TokenTypeBearer is the only token type this service issues.
const TokenTypeBearer = "Bearer"
