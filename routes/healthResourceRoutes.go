package routes

import (
	"safecity-be/controllers"
	"safecity-be/middlewares"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthResourceRoutes sets up the health resource routes
func HealthResourceRoutes(r *gin.Engine, hc *controllers.HealthResourceController, users *mongo.Collection) {
	resources := r.Group("/api/health-resources")
	{
		resources.GET("", hc.ListResources)
		resources.GET("/type/:type", hc.ListResourcesByType)
		resources.GET("/nearby/:longitude/:latitude/:distance", hc.GetNearbyResources)
		resources.GET("/:id", hc.GetResource)
		resources.POST("", middlewares.AuthMiddleware(), hc.CreateResource)
		resources.PUT("/:id", middlewares.AuthMiddleware(), middlewares.AdminMiddleware(users), hc.UpdateResource)
		resources.DELETE("/:id", middlewares.AuthMiddleware(), middlewares.AdminMiddleware(users), hc.DeleteResource)
	}
}
