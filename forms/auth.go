package forms

// RefreshForm carries the refresh token presented for pair rotation.
type RefreshForm struct {
	RefreshToken string `form:"refreshToken" json:"refreshToken" binding:"required"`
}
