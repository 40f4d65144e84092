package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"stadium/internal/config"
	"stadium/internal/middleware"
	"stadium/internal/modules/archive"
	"stadium/internal/modules/auth"
	"stadium/internal/modules/booking"
	"stadium/internal/modules/contractor"
	"stadium/internal/modules/events"
	"stadium/internal/modules/export"
	jwtsvc "stadium/internal/pkg/jwt"
	"stadium/internal/repository"
)

// buildRouter wires repositories, services and handlers onto a gin engine.
// colorCache may be nil.
func buildRouter(db *gorm.DB, cfg *config.Config, colorCache contractor.ColorCache, hub *events.Hub) (*gin.Engine, error) {
	mode, err := booking.ParseAllocationMode(cfg.BatchAllocation)
	if err != nil {
		return nil, err
	}

	bookingRepo := repository.NewBookingRepository(db)
	reorgRepo := repository.NewReorganizationRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)
	contractorRepo := repository.NewContractorRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	bookingService := booking.NewService(bookingRepo, reorgRepo, hub, mode)
	contractorService := contractor.NewService(contractorRepo, colorCache)
	archiveService := archive.NewService(archiveRepo, bookingService)
	exportService := export.NewService(bookingService, contractorService)
	authService := auth.NewService(cfg.OperatorPasswordHash, j)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "subscribers": hub.SubscriberCount()})
	})

	v1 := r.Group("/api/v1")
	{
		public := v1.Group("")
		protected := v1.Group("")
		if cfg.AuthEnabled {
			protected.Use(middleware.JWTAuth(j), middleware.OperatorOnly())
		} else {
			log.Printf("auth_disabled: mutating routes are open")
			protected.Use(middleware.OptionalAuth())
		}

		auth.NewHandler(authService).RegisterRoutes(public)
		booking.NewHandler(bookingService).RegisterRoutes(public, protected)
		contractor.NewHandler(contractorService).RegisterRoutes(public, protected)
		archive.NewHandler(archiveService).RegisterRoutes(public, protected)
		export.NewHandler(exportService).RegisterRoutes(public, middleware.NewRateLimiter(cfg.ExportRateLimit, cfg.ExportBurst).Limit())
		events.NewHandler(hub, cfg.CORSAllowedOrigins).RegisterRoutes(public)
	}

	return r, nil
}
