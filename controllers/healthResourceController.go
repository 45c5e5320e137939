package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"safecity-be/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HealthResourceController handles health facility listings
type HealthResourceController struct {
	resources *mongo.Collection
}

func NewHealthResourceController(resources *mongo.Collection) *HealthResourceController {
	return &HealthResourceController{resources: resources}
}

// ListResources retrieves all health resources
func (hc *HealthResourceController) ListResources(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hc.findAndRespond(c, ctx, bson.M{})
}

// ListResourcesByType retrieves health resources of a single type. An unknown
// type matches nothing and returns an empty list.
func (hc *HealthResourceController) ListResourcesByType(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hc.findAndRespond(c, ctx, bson.M{"type": c.Param("type")})
}

// GetNearbyResources retrieves health resources within a radius of a point,
// ordered by ascending distance. Distance path parameter is kilometers.
func (hc *HealthResourceController) GetNearbyResources(c *gin.Context) {
	point, maxDistanceMeters, ok := parseNearbyParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hc.findAndRespond(c, ctx, nearFilter(point, maxDistanceMeters))
}

func (hc *HealthResourceController) findAndRespond(c *gin.Context, ctx context.Context, filter bson.M) {
	cursor, err := hc.resources.Find(ctx, filter)
	if err != nil {
		logrus.Errorf("Failed to retrieve health resources: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve health resources"})
		return
	}
	defer cursor.Close(ctx)

	resources := make([]models.HealthResource, 0)
	if err := cursor.All(ctx, &resources); err != nil {
		logrus.Errorf("Failed to decode health resources: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode health resources"})
		return
	}

	c.JSON(http.StatusOK, resources)
}

// GetResource retrieves a single health resource by its ID
func (hc *HealthResourceController) GetResource(c *gin.Context) {
	resourceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var resource models.HealthResource
	err = hc.resources.FindOne(ctx, bson.M{"_id": resourceID}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			logrus.Errorf("Failed to retrieve health resource: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve resource"})
		}
		return
	}

	c.JSON(http.StatusOK, resource)
}

type healthResourceInput struct {
	Name             string   `json:"name" binding:"required,max=200"`
	Type             string   `json:"type" binding:"required"`
	Description      string   `json:"description,omitempty"`
	Phone            string   `json:"phone" binding:"required"`
	Email            string   `json:"email,omitempty"`
	Website          string   `json:"website,omitempty"`
	Address          string   `json:"address" binding:"required"`
	Longitude        *float64 `json:"longitude" binding:"required"`
	Latitude         *float64 `json:"latitude" binding:"required"`
	Services         []string `json:"services,omitempty"`
	OperatingHours   string   `json:"operatingHours,omitempty"`
	AvailableBeds    *int     `json:"availableBeds,omitempty"`
	IsOpen24Hours    bool     `json:"isOpen24Hours,omitempty"`
	AcceptsInsurance bool     `json:"acceptsInsurance,omitempty"`
	ImageURL         *string  `json:"imageUrl,omitempty"`
}

// validate checks the enum and coordinate invariants shared by create and
// update.
func (in *healthResourceInput) validate() (models.ResourceType, models.GeoPoint, error) {
	resourceType := models.ResourceType(in.Type)
	if !resourceType.IsValid() {
		return "", models.GeoPoint{}, errors.New("invalid resource type")
	}

	location := models.NewGeoPoint(*in.Longitude, *in.Latitude)
	if err := location.Validate(); err != nil {
		return "", models.GeoPoint{}, err
	}

	return resourceType, location, nil
}

// CreateResource adds a new health resource listing
func (hc *HealthResourceController) CreateResource(c *gin.Context) {
	var input healthResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resourceType, location, err := input.validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	resource := models.HealthResource{
		ID:               primitive.NewObjectID(),
		Name:             input.Name,
		Type:             resourceType,
		Description:      input.Description,
		Phone:            input.Phone,
		Email:            input.Email,
		Website:          input.Website,
		Address:          input.Address,
		Location:         location,
		Services:         input.Services,
		OperatingHours:   input.OperatingHours,
		AvailableBeds:    input.AvailableBeds,
		IsOpen24Hours:    input.IsOpen24Hours,
		AcceptsInsurance: input.AcceptsInsurance,
		ImageURL:         input.ImageURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := hc.resources.InsertOne(ctx, resource); err != nil {
		logrus.Errorf("Failed to create health resource: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// UpdateResource replaces the mutable fields of an existing listing (admin only)
func (hc *HealthResourceController) UpdateResource(c *gin.Context) {
	resourceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	var input healthResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resourceType, location, err := input.validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"$set": bson.M{
		"name":             input.Name,
		"type":             resourceType,
		"description":      input.Description,
		"phone":            input.Phone,
		"email":            input.Email,
		"website":          input.Website,
		"address":          input.Address,
		"location":         location,
		"services":         input.Services,
		"operatingHours":   input.OperatingHours,
		"availableBeds":    input.AvailableBeds,
		"isOpen24Hours":    input.IsOpen24Hours,
		"acceptsInsurance": input.AcceptsInsurance,
		"imageUrl":         input.ImageURL,
		"updatedAt":        time.Now(),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.HealthResource
	err = hc.resources.FindOneAndUpdate(ctx, bson.M{"_id": resourceID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			logrus.Errorf("Failed to update health resource: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update resource"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteResource removes a health resource listing (admin only)
func (hc *HealthResourceController) DeleteResource(c *gin.Context) {
	resourceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := hc.resources.DeleteOne(ctx, bson.M{"_id": resourceID})
	if err != nil {
		logrus.Errorf("Failed to delete health resource: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resource"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted"})
}
