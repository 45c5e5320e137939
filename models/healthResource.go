package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ResourceType enum
type ResourceType string

const (
	Hospital         ResourceType = "Hospital"
	Clinic           ResourceType = "Clinic"
	EmergencyCenter  ResourceType = "Emergency Center"
	Pharmacy         ResourceType = "Pharmacy"
	AmbulanceService ResourceType = "Ambulance Service"
	BloodBank        ResourceType = "Blood Bank"
	MentalHealth     ResourceType = "Mental Health"
	Dental           ResourceType = "Dental"
	OtherResource    ResourceType = "Other"
)

// IsValid reports whether the resource type is one of the closed set.
func (t ResourceType) IsValid() bool {
	switch t {
	case Hospital, Clinic, EmergencyCenter, Pharmacy, AmbulanceService, BloodBank, MentalHealth, Dental, OtherResource:
		return true
	}
	return false
}

// HealthResource represents a health facility listing (hospital, clinic, etc.)
type HealthResource struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Type             ResourceType       `bson:"type" json:"type"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Phone            string             `bson:"phone" json:"phone"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Website          string             `bson:"website,omitempty" json:"website,omitempty"`
	Address          string             `bson:"address" json:"address"`
	Location         GeoPoint           `bson:"location" json:"location"`
	Services         []string           `bson:"services,omitempty" json:"services,omitempty"`
	OperatingHours   string             `bson:"operatingHours,omitempty" json:"operatingHours,omitempty"`
	AvailableBeds    *int               `bson:"availableBeds,omitempty" json:"availableBeds,omitempty"`
	IsOpen24Hours    bool               `bson:"isOpen24Hours" json:"isOpen24Hours"`
	AcceptsInsurance bool               `bson:"acceptsInsurance" json:"acceptsInsurance"`
	Rating           float64            `bson:"rating" json:"rating"`
	ReviewCount      int                `bson:"reviewCount" json:"reviewCount"`
	ImageURL         *string            `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Verified         bool               `bson:"verified" json:"verified"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnsureHealthResourceIndexes creates the 2dsphere index required for $near queries
func EnsureHealthResourceIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
