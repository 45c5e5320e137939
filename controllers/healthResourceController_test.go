package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func resourceTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	hc := NewHealthResourceController(nil)

	r := gin.New()
	r.GET("/api/health-resources/nearby/:longitude/:latitude/:distance", hc.GetNearbyResources)
	r.GET("/api/health-resources/:id", hc.GetResource)
	r.POST("/api/health-resources", hc.CreateResource)
	return r
}

func TestCreateResource_MissingRequiredFields(t *testing.T) {
	r := resourceTestRouter()

	w := postJSON(r, http.MethodPost, "/api/health-resources", `{"name":"City Hospital"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateResource_InvalidType(t *testing.T) {
	r := resourceTestRouter()

	w := postJSON(r, http.MethodPost, "/api/health-resources",
		`{"name":"City Hospital","type":"Vet","phone":"555-0100","address":"1 Main St","longitude":-0.09,"latitude":51.505}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid resource type")
}

func TestCreateResource_CoordinatesOutOfRange(t *testing.T) {
	r := resourceTestRouter()

	w := postJSON(r, http.MethodPost, "/api/health-resources",
		`{"name":"City Hospital","type":"Hospital","phone":"555-0100","address":"1 Main St","longitude":-0.09,"latitude":100}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "latitude")
}

func TestGetResource_MalformedID(t *testing.T) {
	r := resourceTestRouter()

	w := postJSON(r, http.MethodGet, "/api/health-resources/not-an-id", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetNearbyResources_NegativeDistance(t *testing.T) {
	r := resourceTestRouter()

	w := postJSON(r, http.MethodGet, "/api/health-resources/nearby/-0.09/51.505/-1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
