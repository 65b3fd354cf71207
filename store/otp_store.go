package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nkwenti/civicbackend/models"
)

type OTPStore interface {
	Create(ctx context.Context, userID bson.ObjectID, code string, expiresAt time.Time) (*models.OTP, error)
	// Consume atomically finds an unused, unexpired code for the user
	// and marks it used. Two concurrent submissions of the same code
	// cannot both succeed. ErrNotFound covers wrong, expired and
	// already-used codes alike.
	Consume(ctx context.Context, userID bson.ObjectID, code string) (*models.OTP, error)
}

type MongoOTPStore struct {
	col *mongo.Collection
}

func NewMongoOTPStore(col *mongo.Collection) *MongoOTPStore {
	return &MongoOTPStore{col: col}
}

func (s *MongoOTPStore) Create(ctx context.Context, userID bson.ObjectID, code string, expiresAt time.Time) (*models.OTP, error) {
	otp := models.OTP{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		IsUsed:    false,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, otp); err != nil {
		return nil, err
	}
	return &otp, nil
}

func (s *MongoOTPStore) Consume(ctx context.Context, userID bson.ObjectID, code string) (*models.OTP, error) {
	// single conditional update: find-valid and mark-used must be one
	// atomic step per record
	filter := bson.M{
		"userId":    userID,
		"otp":       code,
		"isUsed":    false,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	}
	update := bson.M{"$set": bson.M{"isUsed": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var otp models.OTP
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}
