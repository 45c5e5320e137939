package routes

import (
	"safecity-be/controllers"
	"safecity-be/middlewares"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// IncidentRoutes sets up the incident routes
func IncidentRoutes(r *gin.Engine, ic *controllers.IncidentController, users *mongo.Collection, reportLimit int) {
	incidents := r.Group("/api/incidents")
	{
		incidents.GET("", ic.ListIncidents)
		incidents.POST("", middlewares.AuthMiddleware(), middlewares.ReportRateLimiter(reportLimit), ic.CreateIncident)
		incidents.GET("/mine", middlewares.AuthMiddleware(), ic.GetMyIncidents)
		incidents.GET("/nearby/:longitude/:latitude/:distance", ic.GetNearbyIncidents)
		incidents.GET("/:id", ic.GetIncident)
		incidents.PATCH("/:id/status", middlewares.AuthMiddleware(), middlewares.AdminMiddleware(users), ic.UpdateIncidentStatus)
		incidents.DELETE("/:id", middlewares.AuthMiddleware(), middlewares.AdminMiddleware(users), ic.DeleteIncident)
	}
}
