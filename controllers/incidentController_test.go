package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"safecity-be/events"
	"safecity-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// incidentTestRouter wires the controller without a database; the cases below
// exercise only the validation paths that reject before any store access.
func incidentTestRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ic := NewIncidentController(nil, nil, events.NewBus())

	r := gin.New()
	identity := func(c *gin.Context) {
		if authenticated {
			c.Set("user_id", "64b7f8a2c9e77a0012345678")
		}
		c.Next()
	}
	r.POST("/api/incidents", identity, ic.CreateIncident)
	r.GET("/api/incidents/nearby/:longitude/:latitude/:distance", ic.GetNearbyIncidents)
	r.GET("/api/incidents/:id", ic.GetIncident)
	r.PATCH("/api/incidents/:id/status", ic.UpdateIncidentStatus)
	r.DELETE("/api/incidents/:id", ic.DeleteIncident)
	return r
}

func postJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateIncident_Unauthenticated(t *testing.T) {
	r := incidentTestRouter(false)

	w := postJSON(r, http.MethodPost, "/api/incidents",
		`{"title":"Stolen bike","description":"Bike stolen near the station","category":"Theft","location":{"coordinates":[-0.09,51.505]}}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateIncident_MissingFields(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodPost, "/api/incidents", `{"title":"Stolen bike"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_InvalidCategory(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodPost, "/api/incidents",
		`{"title":"t","description":"d","category":"Arson","location":{"coordinates":[-0.09,51.505]}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid category")
}

func TestCreateIncident_CoordinatesOutOfRange(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodPost, "/api/incidents",
		`{"title":"t","description":"d","category":"Theft","location":{"coordinates":[-200,51.505]}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "longitude")
}

func TestCreateIncident_WrongCoordinateArity(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodPost, "/api/incidents",
		`{"title":"t","description":"d","category":"Theft","location":{"coordinates":[-0.09]}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIncident_MalformedID(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodGet, "/api/incidents/not-an-id", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetNearbyIncidents_NegativeDistance(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodGet, "/api/incidents/nearby/-0.09/51.505/-5", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "negative")
}

func TestGetNearbyIncidents_BadCoordinates(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodGet, "/api/incidents/nearby/abc/51.505/5", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, http.MethodGet, "/api/incidents/nearby/-0.09/95/5", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func nearbyParamsContext(lon, lat, dist string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{
		{Key: "longitude", Value: lon},
		{Key: "latitude", Value: lat},
		{Key: "distance", Value: dist},
	}
	return c, w
}

func TestParseNearbyParams_ConvertsKilometersToMeters(t *testing.T) {
	c, _ := nearbyParamsContext("-0.09", "51.505", "5")

	point, meters, ok := parseNearbyParams(c)

	require.True(t, ok)
	assert.Equal(t, 5000.0, meters)
	assert.Equal(t, []float64{-0.09, 51.505}, point.Coordinates)
}

func TestParseNearbyParams_ZeroDistanceAllowed(t *testing.T) {
	// A zero radius matches only coincident points; it is not a validation
	// error
	c, w := nearbyParamsContext("-0.09", "51.505", "0")

	point, meters, ok := parseNearbyParams(c)

	require.True(t, ok)
	assert.Equal(t, 0.0, meters)
	assert.Equal(t, http.StatusOK, w.Code)

	near := nearFilter(point, meters)["location"].(bson.M)["$near"].(bson.M)
	assert.Equal(t, 0.0, near["$maxDistance"])
}

func TestParseNearbyParams_NaNRejected(t *testing.T) {
	c, w := nearbyParamsContext("NaN", "51.505", "5")
	_, _, ok := parseNearbyParams(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = nearbyParamsContext("-0.09", "NaN", "5")
	_, _, ok = parseNearbyParams(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = nearbyParamsContext("-0.09", "51.505", "NaN")
	_, _, ok = parseNearbyParams(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNearFilter_Shape(t *testing.T) {
	point := models.NewGeoPoint(-0.09, 51.505)

	filter := nearFilter(point, 5000)

	near := filter["location"].(bson.M)["$near"].(bson.M)
	assert.Equal(t, point, near["$geometry"])
	assert.Equal(t, 5000.0, near["$maxDistance"])
}

func TestUpdateIncidentStatus_InvalidStatus(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodPatch, "/api/incidents/64b7f8a2c9e77a0012345678/status",
		`{"status":"Closed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
}

func TestUpdateIncidentStatus_MalformedID(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodPatch, "/api/incidents/xyz/status", `{"status":"Resolved"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteIncident_MalformedID(t *testing.T) {
	r := incidentTestRouter(true)

	w := postJSON(r, http.MethodDelete, "/api/incidents/xyz", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
