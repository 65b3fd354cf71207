package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/nkwenti/civicbackend/models"
	"github.com/nkwenti/civicbackend/utils"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	// FindByVerificationToken matches only unexpired tokens; a wrong
	// token and an expired one are both ErrNotFound.
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(col *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{col: col}
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{
		"emailVerificationToken":  token,
		"emailVerificationExpiry": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		// uniqueness is enforced by the index, not by us
		if utils.IsDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *MongoUserStore) Update(ctx context.Context, user *models.User) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
