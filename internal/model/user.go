package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles assigned to user accounts. Registration always produces RoleUser;
// RoleAdmin is granted out of band and unlocks the catalog write endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address holds the optional postal address attached to a user profile.
type Address struct {
	Country       string `bson:"country,omitempty" json:"country,omitempty"`
	City          string `bson:"city,omitempty" json:"city,omitempty"`
	StreetAddress string `bson:"streetAddress,omitempty" json:"streetAddress,omitempty"`
	ZipCode       string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
}

// User is a document in the `users` collection. Email carries a unique
// index. PasswordHash stores the bcrypt hash and is never serialized to
// JSON, so handlers can respond with this struct directly.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName    string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string             `bson:"password" json:"-"`
	CompanyName  string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Address      Address            `bson:"address,omitempty" json:"address,omitempty"`
	Role         string             `bson:"role" json:"role"`
	Wishlist     []string           `bson:"wishlist" json:"wishlist"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user may call admin-gated catalog endpoints.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
