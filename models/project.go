package models

// Project groups tasks under a single operations effort. Public projects are
// visible to anonymous callers; private ones require authentication.
type Project struct {
	ID        int64 `json:"id" bson:"_id"`
	CreatedAt int64 `json:"createdAt" bson:"created_at"`
	UpdatedAt int64 `json:"-" bson:"updated_at"`

	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description"`
	Public      bool   `json:"public" bson:"public"`
	OwnerID     int64  `json:"ownerId" bson:"owner_id"`
}
