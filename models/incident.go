package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IncidentCategory enum
type IncidentCategory string

const (
	Theft               IncidentCategory = "Theft"
	Vandalism           IncidentCategory = "Vandalism"
	Assault             IncidentCategory = "Assault"
	SuspiciousActivity  IncidentCategory = "Suspicious Activity"
	EnvironmentalHazard IncidentCategory = "Environmental Hazard"
	InfrastructureIssue IncidentCategory = "Infrastructure Issue"
	OtherIncident       IncidentCategory = "Other"
)

// IncidentStatus enum
type IncidentStatus string

const (
	Reported    IncidentStatus = "Reported"
	UnderReview IncidentStatus = "Under Review"
	Resolved    IncidentStatus = "Resolved"
)

// IsValid reports whether the category is one of the closed set.
func (c IncidentCategory) IsValid() bool {
	switch c {
	case Theft, Vandalism, Assault, SuspiciousActivity, EnvironmentalHazard, InfrastructureIssue, OtherIncident:
		return true
	}
	return false
}

// IsValid reports whether the status is one of the closed set.
func (s IncidentStatus) IsValid() bool {
	switch s {
	case Reported, UnderReview, Resolved:
		return true
	}
	return false
}

// Incident represents a geotagged incident reported by a user
type Incident struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    IncidentCategory   `bson:"category" json:"category"`
	Location    GeoPoint           `bson:"location" json:"location"`
	Status      IncidentStatus     `bson:"status" json:"status"`
	ReportedBy  primitive.ObjectID `bson:"reportedBy" json:"reportedBy"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	ImageURL    *string            `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnsureIncidentIndexes creates the 2dsphere index required for $near queries
func EnsureIncidentIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
