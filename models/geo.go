package models

import (
	"fmt"
	"math"
)

// GeoPoint is a GeoJSON Point stored as (longitude, latitude).
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a Point from a (lon, lat) pair.
func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

// Validate checks arity and coordinate ranges. Coordinates are never clamped;
// out-of-range values are rejected.
func (p GeoPoint) Validate() error {
	if p.Type != "Point" {
		return fmt.Errorf("location type must be 'Point', got %q", p.Type)
	}
	if len(p.Coordinates) != 2 {
		return fmt.Errorf("location coordinates must be [longitude, latitude], got %d values", len(p.Coordinates))
	}
	lon, lat := p.Coordinates[0], p.Coordinates[1]
	// NaN slips past the range comparisons below
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return fmt.Errorf("coordinates must be numbers")
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	return nil
}
