package main

import (
	"database/sql"
	"net/http"
	"time"

	"lawbridge-platform/internal/httpapi"
	"lawbridge-platform/internal/rbac"
	"lawbridge-platform/internal/telephony"
	"lawbridge-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, api *httpapi.API, webhooks *telephony.WebhookHandler, authMW gin.HandlerFunc, db *sql.DB, rdb *redis.Client) {
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api")

	// Public surface: login, onboarding, pick-lists.
	v1.POST("/auth/otp/send", api.SendOTP)
	v1.POST("/auth/otp/verify", api.VerifyOTP)
	v1.POST("/auth/refresh", api.Refresh)
	v1.POST("/advocates/register", api.RegisterAdvocate)
	v1.GET("/refdata", api.RefData)

	// Provider webhooks (public).
	// NOTE: Restrict these to provider IPs or a shared-secret path segment in
	// production; Exotel does not sign callbacks.
	wh := v1.Group("/webhooks")
	{
		wh.GET("/exotel/status", webhooks.HandleStatusCallback)
		wh.POST("/exotel/status", webhooks.HandleStatusCallback)
		wh.GET("/exotel/passthru", webhooks.HandlePassthru)
		wh.POST("/exotel/passthru", webhooks.HandlePassthru)
		wh.POST("/razorpay", api.RazorpayWebhook)
	}

	// Authenticated surface.
	authed := v1.Group("")
	authed.Use(authMW)
	{
		authed.GET("/auth/me", api.Me)

		client := authed.Group("")
		client.Use(rbac.RequireAnyRole(rbac.RoleClient))
		{
			client.GET("/advocates", api.ListAdvocates)
			client.GET("/advocates/:id", api.GetAdvocate)
			client.POST("/calls", api.InitiateCall)
			client.GET("/calls", api.ClientCallHistory)
			client.POST("/calls/:id/rating", api.RateCall)
			client.GET("/wallet", api.GetWallet)
			client.POST("/wallet/topup", api.TopUpWallet)
			client.GET("/wallet/transactions", api.WalletTransactions)
			client.PUT("/profile", api.UpdateClientProfile)
		}

		advocate := authed.Group("/advocate")
		advocate.Use(rbac.RequireAnyRole(rbac.RoleAdvocate))
		{
			advocate.GET("/profile", api.AdvocateProfile)
			advocate.PUT("/profile", api.UpdateAdvocateProfile)
			advocate.PATCH("/duty-status", api.SetDutyStatus)
			advocate.GET("/dashboard", api.AdvocateDashboard)
			advocate.GET("/calls", api.AdvocateCallHistory)
		}

		admin := authed.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin))
		{
			admin.GET("/advocates/pending", api.PendingAdvocates)
			admin.POST("/advocates/:id/verification", api.VerifyAdvocate)
			admin.GET("/advocates", api.AdminListAdvocates)
			admin.GET("/clients", api.AdminListClients)
			admin.GET("/calls", api.AdminListCalls)
			admin.GET("/analytics", api.AdminAnalytics)
		}
	}
}
