package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OTP is a single-use numeric login code. A record is consumable iff
// isUsed is false and expiresAt is still in the future; once consumed
// it stays used. A user may have several outstanding codes.
type OTP struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"userId" json:"userId"`
	Code      string        `bson:"otp" json:"-"` // never expose
	ExpiresAt time.Time     `bson:"expiresAt" json:"expiresAt"`
	IsUsed    bool          `bson:"isUsed" json:"isUsed"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
