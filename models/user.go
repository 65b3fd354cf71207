package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	Role         Role          `bson:"role" json:"role"`

	// Verification token and expiry are either both nil (nothing
	// pending) or both set; cleared exactly once on a successful
	// verification.
	IsEmailVerified         bool       `bson:"isEmailVerified" json:"isEmailVerified"`
	EmailVerificationToken  *string    `bson:"emailVerificationToken,omitempty" json:"-"`
	EmailVerificationExpiry *time.Time `bson:"emailVerificationExpiry,omitempty" json:"-"`

	Is2FAVerified bool `bson:"is2FAVerified" json:"is2FAVerified"`
	Is2FAEnabled  bool `bson:"is2FAEnabled" json:"is2FAEnabled"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
