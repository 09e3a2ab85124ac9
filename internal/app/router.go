// internal/app/router.go
package app

import (
	activityHandler "activity-booking-service/internal/handlers/activity"
	agencyHandler "activity-booking-service/internal/handlers/agency"
	agentHandler "activity-booking-service/internal/handlers/agent"
	authHandler "activity-booking-service/internal/handlers/auth"
	bookingHandler "activity-booking-service/internal/handlers/booking"
	healthHandler "activity-booking-service/internal/handlers/health"
	staffHandler "activity-booking-service/internal/handlers/staff"
	wsHandler "activity-booking-service/internal/handlers/websocket"
	"activity-booking-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	HealthHandler   *healthHandler.HealthHandler
	AuthHandler     *authHandler.AuthHandler
	AgencyHandler   *agencyHandler.AgencyHandler
	AgentHandler    *agentHandler.AgentHandler
	StaffHandler    *staffHandler.StaffHandler
	ActivityHandler *activityHandler.ActivityHandler
	BookingHandler  *bookingHandler.BookingHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// SetupRouter registers every route. Reads need an authenticated identity
// and writes need the admin role; both are open when auth is disabled.
func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")
	auth := h.AuthMiddleware

	// ==================== Health Check ====================
	api.GET("/health", h.HealthHandler.Health)

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)
	r.GET("/ws/stats", append(auth.AdminOnly(), h.WSHandler.GetStats)...)

	// ==================== Auth ====================
	if h.AuthHandler != nil {
		api.POST("/auth/login", h.AuthHandler.Login)

		authProtected := api.Group("/auth")
		authProtected.Use(auth.Auth())
		{
			authProtected.POST("/logout", h.AuthHandler.Logout)
			authProtected.GET("/me", h.AuthHandler.GetMe)
		}
	}

	// ==================== Agencies ====================
	agencies := api.Group("/agencies", auth.Auth())
	{
		agencies.GET("", h.AgencyHandler.ListAgencies)
		agencies.GET("/:id", h.AgencyHandler.GetAgency)
	}
	agenciesAdmin := api.Group("/agencies", auth.AdminOnly()...)
	{
		agenciesAdmin.POST("", h.AgencyHandler.CreateAgency)
		agenciesAdmin.PUT("/:id", h.AgencyHandler.UpdateAgency)
		agenciesAdmin.PUT("/:id/activate", h.AgencyHandler.ActivateAgency)
		agenciesAdmin.PUT("/:id/deactivate", h.AgencyHandler.DeactivateAgency)
		agenciesAdmin.DELETE("/:id", h.AgencyHandler.DeleteAgency)
	}

	// ==================== Agents ====================
	agents := api.Group("/agents", auth.Auth())
	{
		agents.GET("", h.AgentHandler.ListAgents)
		agents.GET("/:id", h.AgentHandler.GetAgent)
	}
	agentsAdmin := api.Group("/agents", auth.AdminOnly()...)
	{
		agentsAdmin.POST("", h.AgentHandler.CreateAgent)
		agentsAdmin.PUT("/:id", h.AgentHandler.UpdateAgent)
		agentsAdmin.PUT("/:id/activate", h.AgentHandler.ActivateAgent)
		agentsAdmin.PUT("/:id/deactivate", h.AgentHandler.DeactivateAgent)
		agentsAdmin.DELETE("/:id", h.AgentHandler.DeleteAgent)
	}

	// ==================== Activity Staff ====================
	staff := api.Group("/activity-staff", auth.Auth())
	{
		staff.GET("", h.StaffHandler.ListStaff)
		staff.GET("/available", h.StaffHandler.ListAvailable)
		staff.GET("/:id", h.StaffHandler.GetStaff)
	}
	staffAdmin := api.Group("/activity-staff", auth.AdminOnly()...)
	{
		staffAdmin.POST("", h.StaffHandler.CreateStaff)
		staffAdmin.PUT("/:id", h.StaffHandler.UpdateStaff)
		staffAdmin.PUT("/:id/activate", h.StaffHandler.ActivateStaff)
		staffAdmin.PUT("/:id/deactivate", h.StaffHandler.DeactivateStaff)
		staffAdmin.PUT("/:id/unavailable-dates", h.StaffHandler.AddUnavailableDates)
		staffAdmin.DELETE("/:id/unavailable-dates/:date", h.StaffHandler.RemoveUnavailableDate)
		staffAdmin.DELETE("/:id", h.StaffHandler.DeleteStaff)
	}

	// ==================== Activities ====================
	activities := api.Group("/activities", auth.Auth())
	{
		activities.GET("", h.ActivityHandler.ListActivities)
		activities.GET("/:id", h.ActivityHandler.GetActivity)
		activities.GET("/:id/availability", h.ActivityHandler.GetAvailability)
		activities.GET("/:id/calendar", h.ActivityHandler.GetCalendar)
	}
	activitiesAdmin := api.Group("/activities", auth.AdminOnly()...)
	{
		activitiesAdmin.POST("", h.ActivityHandler.CreateActivity)
		activitiesAdmin.PUT("/:id", h.ActivityHandler.UpdateActivity)
		activitiesAdmin.PUT("/:id/activate", h.ActivityHandler.ActivateActivity)
		activitiesAdmin.PUT("/:id/deactivate", h.ActivityHandler.DeactivateActivity)
		activitiesAdmin.DELETE("/:id", h.ActivityHandler.DeleteActivity)
	}

	// ==================== Bookings ====================
	bookings := api.Group("/bookings", auth.Auth())
	{
		bookings.GET("", h.BookingHandler.ListBookings)
		bookings.GET("/:id", h.BookingHandler.GetBooking)
	}
	bookingsAdmin := api.Group("/bookings", auth.AdminOnly()...)
	{
		bookingsAdmin.POST("", h.BookingHandler.CreateBooking)
		bookingsAdmin.PUT("/:id", h.BookingHandler.UpdateBooking)
		bookingsAdmin.PUT("/:id/cancel", h.BookingHandler.CancelBooking)
		bookingsAdmin.DELETE("/:id", h.BookingHandler.DeleteBooking)
	}

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}
