package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the indexes the stores rely on. Email
// uniqueness is enforced here, not in application code; the OTP TTL
// index is hygiene only — validity is always re-checked at read time.
func EnsureIndexes(ctx context.Context) error {
	users := OpenCollection("users")
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	otps := OpenCollection("otps")
	_, err = otps.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("otps ttl index: %w", err)
	}

	complaints := OpenCollection("complaints")
	_, err = complaints.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "citizenId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("complaints indexes: %w", err)
	}

	return nil
}
