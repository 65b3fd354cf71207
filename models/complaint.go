package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved:
		return true
	}
	return false
}

type ComplaintCategory string

const (
	CategoryInfrastructure ComplaintCategory = "infrastructure"
	CategorySanitation     ComplaintCategory = "sanitation"
	CategoryTraffic        ComplaintCategory = "traffic"
	CategorySafety         ComplaintCategory = "safety"
	CategoryUtilities      ComplaintCategory = "utilities"
	CategoryOther          ComplaintCategory = "other"
)

func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryInfrastructure, CategorySanitation, CategoryTraffic,
		CategorySafety, CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address,omitempty" json:"address,omitempty"`
}

type Complaint struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	Title       string            `bson:"title" json:"title"`
	Description string            `bson:"description" json:"description"`
	Category    ComplaintCategory `bson:"category" json:"category"`
	Image       string            `bson:"image,omitempty" json:"image,omitempty"`
	Location    Location          `bson:"location" json:"location"`

	Status            ComplaintStatus `bson:"status" json:"status"`
	CitizenID         bson.ObjectID   `bson:"citizenId" json:"citizenId"`
	AssignedOfficerID *bson.ObjectID  `bson:"assignedOfficerId,omitempty" json:"assignedOfficerId,omitempty"`
	ResolutionNotes   string          `bson:"resolutionNotes,omitempty" json:"resolutionNotes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
