package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sst-platform/backend/internal/config"
	"github.com/sst-platform/backend/internal/db"
	"github.com/sst-platform/backend/internal/http/handlers"
	"github.com/sst-platform/backend/internal/http/middleware"
	"github.com/sst-platform/backend/internal/metrics"
	"github.com/sst-platform/backend/internal/service"

	_ "github.com/sst-platform/backend/docs"
)

func Router(cfg config.Config, store *db.Store, gestion *service.GestionService, controls *service.ControlService, legal *service.LegalService, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Middleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Gestion:   gestion,
		Controls:  controls,
		Legal:     legal,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		api.GET("/reports", h.ReportsList)
		api.GET("/reports/:id", h.ReportDetails)
		api.GET("/rules", h.RulesList)
		api.GET("/users", h.UsersList)
		api.GET("/tasks", h.TasksList)
		api.GET("/controls", h.ControlsList)
		api.GET("/controls/due-follow-up", h.ControlsDueFollowUp)
		api.GET("/consultations", h.ConsultationsList)
		api.GET("/report-types", h.ReportTypesList)
		api.GET("/evidence-types", h.EvidenceTypesList)
		api.GET("/locations", h.LocationsList)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/reports", h.CreateReport)
		admin.POST("/rules", h.CreateRule)
		admin.PATCH("/rules/:id", h.UpdateRule)
		admin.POST("/rules/:id/deactivate", h.DeactivateRule)
		admin.POST("/assignments/:id/respond", h.RespondAssignment)
		admin.POST("/assignments/:id/resolve", h.ResolveAssignment)
		admin.POST("/assignments/:id/close", h.CloseAssignment)
		admin.POST("/assignments/:id/escalate", h.EscalateAssignment)
		admin.POST("/sweep", h.Sweep)
		admin.POST("/controls", h.CreateControl)
		admin.POST("/controls/:id/transition", h.TransitionControl)
		admin.POST("/controls/:id/evaluate", h.EvaluateControl)
		admin.POST("/consultations", h.CreateConsultation)
		admin.POST("/consultations/:id/assign", h.AssignLawyer)
		admin.POST("/consultations/:id/resolve", h.ResolveConsultation)
		admin.POST("/consultations/:id/close", h.CloseConsultation)
		admin.POST("/users", h.CreateUser)
		admin.POST("/report-types", h.CreateReportType)
		admin.POST("/evidence-types", h.CreateEvidenceType)
		admin.POST("/locations", h.CreateLocation)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
