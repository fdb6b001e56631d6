package models

// Roles understood by the authorization layer. The set is open: unknown role
// strings are stored as-is and simply never match a guard.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User is the credential-store record for an account. Password holds the
// bcrypt hash and is never serialized.
type User struct {
	ID        int64 `json:"id" bson:"_id"`
	CreatedAt int64 `json:"createdAt" bson:"created_at"`
	UpdatedAt int64 `json:"-" bson:"updated_at"`
	LastLogin int64 `json:"lastLogin,omitempty" bson:"last_login"`

	Email    string `json:"email" bson:"email"`
	Role     string `json:"role" bson:"role"`
	Password string `json:"-" bson:"password"`
}
