package router

import (
	"github.com/batchtrack/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the handlers mounted by APIGroups
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Product    *handler.ProductHandler
	Package    *handler.PackageHandler
	Batch      *handler.BatchHandler
	Redemption *handler.RedemptionHandler
	Submission *handler.SubmissionHandler
	Customer   *handler.CustomerHandler
}

// Guards are the middleware that protect route groups
type Guards struct {
	// Admin authenticates admin routes. Required.
	Admin gin.HandlerFunc
	// Public throttles unauthenticated write routes. Optional.
	Public gin.HandlerFunc
}

// APIGroups builds the route groups of the batchtrack API.
// Login, redemption, batch code lookup and health are public; everything
// else requires an admin token.
func APIGroups(h Handlers, guards Guards) []*DomainGroup {
	public := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		if guards.Public == nil {
			return []gin.HandlerFunc{hf}
		}
		return []gin.HandlerFunc{guards.Public, hf}
	}

	health := NewDomainGroup("health", "/health")
	health.GET("", h.Health.Check)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", public(h.Auth.Login)...)
	auth.POST("/logout", guards.Admin, h.Auth.Logout)

	redemptions := NewDomainGroup("redemptions", "/redemptions")
	redemptions.POST("", public(h.Redemption.Redeem)...)

	products := NewDomainGroup("products", "/products").Use(guards.Admin)
	products.GET("", h.Product.List).
		POST("", h.Product.Create).
		GET("/:id", h.Product.Get).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		GET("/:id/batches", h.Product.ListBatches)

	packages := NewDomainGroup("packages", "/packages").Use(guards.Admin)
	packages.GET("", h.Package.List).
		POST("", h.Package.Create).
		GET("/:id", h.Package.Get).
		PUT("/:id", h.Package.Update).
		DELETE("/:id", h.Package.Delete)

	// by-code is public, so it sits outside the admin group
	batches := NewDomainGroup("batches", "/batches")
	batches.GET("/by-code/:code", h.Batch.ByCode)
	batchAdmin := batches.Group("batch-admin", "").Use(guards.Admin)
	batchAdmin.GET("", h.Batch.List).
		POST("", h.Batch.Create).
		GET("/:id", h.Batch.Get).
		DELETE("/:id", h.Batch.Delete).
		PUT("/:id/report", h.Batch.ReplaceReport).
		GET("/:id/submissions", h.Batch.Submissions)

	submissions := NewDomainGroup("submissions", "/submissions").Use(guards.Admin)
	submissions.GET("", h.Submission.List).
		GET("/:id", h.Submission.Get).
		DELETE("/:id", h.Submission.Delete)

	customers := NewDomainGroup("customers", "/customers").Use(guards.Admin)
	customers.GET("", h.Customer.List).
		GET("/:customer_id/submissions", h.Customer.History)

	return []*DomainGroup{health, auth, redemptions, products, packages, batches, submissions, customers}
}

// RegisterAPI registers the batchtrack API groups on r
func RegisterAPI(r *Router, h Handlers, guards Guards) *Router {
	for _, group := range APIGroups(h, guards) {
		r.Register(group)
	}
	return r
}
