package router

import (
	"github.com/gin-gonic/gin"

	"heliosign/internal/config"
	"heliosign/internal/domain"
	"heliosign/internal/handler"
	"heliosign/internal/middleware"
	"heliosign/internal/service"
)

// Handlers bundles all HTTP handlers for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Document *handler.DocumentHandler
	Signing  *handler.SigningHandler
	Contact  *handler.ContactHandler
	Report   *handler.ReportHandler
	Health   *handler.HealthHandler
}

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, authService service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")
	{
		// Public routes
		v1.POST("/auth/login", h.Auth.Login)

		// Signing routes are authenticated by the token in the URL, not a JWT.
		sign := v1.Group("/sign/:token")
		{
			sign.GET("", h.Signing.View)
			sign.POST("/view", h.Signing.View)
			sign.POST("/fields/:fieldId", h.Signing.SignField)
			sign.POST("/decline", h.Signing.Decline)
		}

		// Protected staff routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			docs := protected.Group("/documents")
			{
				docs.POST("", h.Document.Upload)
				docs.GET("", h.Document.List)
				docs.GET("/:id", h.Document.Get)
				docs.POST("/:id/fields", h.Document.AddField)
				docs.PUT("/:id/fields/:fieldId", h.Document.UpdateField)
				docs.DELETE("/:id/fields/:fieldId", h.Document.RemoveField)
				docs.POST("/:id/signers", h.Document.AddSigner)
				docs.PUT("/:id/signers/order", h.Document.ReorderSigners)
				docs.DELETE("/:id/signers/:signerId", h.Document.RemoveSigner)
				docs.POST("/:id/send", h.Document.Send)
				docs.POST("/:id/void", h.Document.Void)
				docs.GET("/:id/download", h.Document.DownloadURL)
				docs.GET("/:id/audit", h.Document.AuditTrail)
				docs.GET("/:id/report", h.Report.DocumentReport)
			}

			contacts := protected.Group("/contacts")
			{
				contacts.POST("", h.Contact.Create)
				contacts.GET("", h.Contact.List)
				contacts.GET("/:id", h.Contact.Get)
				contacts.PUT("/:id", h.Contact.Update)
				contacts.DELETE("/:id", h.Contact.Delete)
			}

			admin := protected.Group("")
			admin.Use(middleware.RequireRole(domain.RoleAdmin))
			{
				admin.POST("/users", h.Auth.CreateUser)
				admin.GET("/reports/signing-activity", h.Report.SigningActivity)
			}
		}
	}

	return r
}
