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

// ComplaintFilter narrows listings; ownership scoping (citizens see
// only their own complaints) is expressed through CitizenID.
type ComplaintFilter struct {
	CitizenID *bson.ObjectID
	Status    models.ComplaintStatus
	Category  models.ComplaintCategory
}

type ComplaintStore interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Complaint, error)
	Find(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error)
	Update(ctx context.Context, complaint *models.Complaint) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type MongoComplaintStore struct {
	col *mongo.Collection
}

func NewMongoComplaintStore(col *mongo.Collection) *MongoComplaintStore {
	return &MongoComplaintStore{col: col}
}

func (s *MongoComplaintStore) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID.IsZero() {
		complaint.ID = bson.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, complaint)
	return err
}

func (s *MongoComplaintStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&complaint)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (s *MongoComplaintStore) Find(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error) {
	query := bson.M{}
	if filter.CitizenID != nil {
		query["citizenId"] = *filter.CitizenID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	complaints := make([]models.Complaint, 0)
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (s *MongoComplaintStore) Update(ctx context.Context, complaint *models.Complaint) error {
	complaint.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": complaint.ID}, complaint)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoComplaintStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
