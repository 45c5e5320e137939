package controllers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"safecity-be/events"
	"safecity-be/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IncidentResponse is an incident with the reporter reference expanded to
// {id, name, email}. The expansion is recomputed on every read; nothing is
// stored redundantly.
type IncidentResponse struct {
	models.Incident
	ReportedBy map[string]interface{} `json:"reportedBy"`
}

// IncidentController handles incident reads, writes and the resulting event
// publications.
type IncidentController struct {
	incidents *mongo.Collection
	users     *mongo.Collection
	bus       *events.Bus
}

func NewIncidentController(incidents, users *mongo.Collection, bus *events.Bus) *IncidentController {
	return &IncidentController{
		incidents: incidents,
		users:     users,
		bus:       bus,
	}
}

// reporterInfo resolves the reporter reference to {id, name, email}. Falls
// back to the bare id if the user record is gone.
func (ic *IncidentController) reporterInfo(ctx context.Context, reporterID primitive.ObjectID) map[string]interface{} {
	info := map[string]interface{}{
		"id": reporterID,
	}

	var reporter models.User
	if err := ic.users.FindOne(ctx, bson.M{"_id": reporterID}).Decode(&reporter); err == nil {
		info["name"] = reporter.Name
		info["email"] = reporter.Email
	}

	return info
}

func (ic *IncidentController) toResponse(ctx context.Context, incident models.Incident) IncidentResponse {
	return IncidentResponse{
		Incident:   incident,
		ReportedBy: ic.reporterInfo(ctx, incident.ReportedBy),
	}
}

// ListIncidents handles retrieving all incidents with optional category and
// status filters, newest first
func (ic *IncidentController) ListIncidents(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Build query filter; an unknown enum value simply matches nothing
	filter := bson.M{}
	if category := c.Query("category"); category != "" && category != "all" {
		filter["category"] = category
	}
	if status := c.Query("status"); status != "" && status != "all" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := ic.incidents.Find(ctx, filter, findOptions)
	if err != nil {
		logrus.Errorf("Failed to retrieve incidents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		logrus.Errorf("Failed to decode incidents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode incidents"})
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, ic.toResponse(ctx, incident))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateIncident handles the creation of a new incident report
func (ic *IncidentController) CreateIncident(c *gin.Context) {
	// Extract user ID from context (set by auth middleware)
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reportedBy, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"required,max=2000"`
		Category    string `json:"category" binding:"required"`
		Location    struct {
			Coordinates []float64 `json:"coordinates" binding:"required"`
		} `json:"location" binding:"required"`
		Address  string  `json:"address,omitempty"`
		ImageURL *string `json:"imageUrl,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.IncidentCategory(input.Category)
	if !category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	location := models.GeoPoint{Type: "Point", Coordinates: input.Location.Coordinates}
	if err := location.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	incident := models.Incident{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		Location:    location,
		Status:      models.Reported,
		ReportedBy:  reportedBy,
		Address:     input.Address,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := ic.incidents.InsertOne(ctx, incident); err != nil {
		logrus.Errorf("Failed to create incident: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create incident"})
		return
	}

	response := ic.toResponse(ctx, incident)

	// Notify connected clients; delivery is best-effort and never fails the
	// request. Published only after the write committed.
	ic.bus.Publish(events.Event{
		Type:     events.IncidentCreated,
		Incident: response,
		Title:    incident.Title,
		Category: incident.Category,
		Status:   incident.Status,
	})

	c.JSON(http.StatusCreated, response)
}

// GetIncident retrieves a single incident by its ID
func (ic *IncidentController) GetIncident(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var incident models.Incident
	err = ic.incidents.FindOne(ctx, bson.M{"_id": incidentID}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		} else {
			logrus.Errorf("Failed to retrieve incident: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident"})
		}
		return
	}

	c.JSON(http.StatusOK, ic.toResponse(ctx, incident))
}

// GetMyIncidents retrieves all incidents reported by the authenticated user
func (ic *IncidentController) GetMyIncidents(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reporterID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ic.incidents.Find(ctx, bson.M{"reportedBy": reporterID}, findOptions)
	if err != nil {
		logrus.Errorf("Failed to retrieve incidents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		logrus.Errorf("Failed to decode incidents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode incidents"})
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, ic.toResponse(ctx, incident))
	}

	c.JSON(http.StatusOK, responses)
}

// GetNearbyIncidents retrieves incidents within a radius of a point, ordered
// by ascending distance. Distance path parameter is kilometers.
func (ic *IncidentController) GetNearbyIncidents(c *gin.Context) {
	point, maxDistanceMeters, ok := parseNearbyParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ic.incidents.Find(ctx, nearFilter(point, maxDistanceMeters))
	if err != nil {
		logrus.Errorf("Failed to retrieve nearby incidents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		logrus.Errorf("Failed to decode incidents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode incidents"})
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, ic.toResponse(ctx, incident))
	}

	c.JSON(http.StatusOK, responses)
}

// UpdateIncidentStatus handles PATCH /:id/status (admin only)
func (ic *IncidentController) UpdateIncidentStatus(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.IncidentStatus(input.Status)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": now}}

	// Returns the document as it was before the update, so the previous
	// status can accompany the event
	var previous models.Incident
	err = ic.incidents.FindOneAndUpdate(ctx, bson.M{"_id": incidentID}, update).Decode(&previous)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		} else {
			logrus.Errorf("Failed to update incident status: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update incident"})
		}
		return
	}

	updated := previous
	updated.Status = status
	updated.UpdatedAt = now

	response := ic.toResponse(ctx, updated)

	ic.bus.Publish(events.Event{
		Type:           events.IncidentStatusChanged,
		Incident:       response,
		Title:          updated.Title,
		Category:       updated.Category,
		Status:         updated.Status,
		PreviousStatus: previous.Status,
	})

	c.JSON(http.StatusOK, response)
}

// DeleteIncident removes an incident record (admin only)
func (ic *IncidentController) DeleteIncident(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ic.incidents.DeleteOne(ctx, bson.M{"_id": incidentID})
	if err != nil {
		logrus.Errorf("Failed to delete incident: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete incident"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Incident deleted"})
}

// parseNearbyParams reads the :longitude/:latitude/:distance path parameters,
// validating ranges and converting kilometers to meters. Writes the error
// response itself when validation fails.
func parseNearbyParams(c *gin.Context) (models.GeoPoint, float64, bool) {
	longitude, err := strconv.ParseFloat(c.Param("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid longitude"})
		return models.GeoPoint{}, 0, false
	}

	latitude, err := strconv.ParseFloat(c.Param("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid latitude"})
		return models.GeoPoint{}, 0, false
	}

	distanceKm, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid distance"})
		return models.GeoPoint{}, 0, false
	}
	if distanceKm < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Distance must not be negative"})
		return models.GeoPoint{}, 0, false
	}

	point := models.NewGeoPoint(longitude, latitude)
	if err := point.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.GeoPoint{}, 0, false
	}

	return point, distanceKm * 1000, true
}

// nearFilter builds a $near query against the 2dsphere index; results come
// back ordered by ascending spherical distance.
func nearFilter(point models.GeoPoint, maxDistanceMeters float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry":    point,
				"$maxDistance": maxDistanceMeters,
			},
		},
	}
}
