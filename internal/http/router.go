package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/vamshavali-backend/internal/http/handlers"
	httpMW "github.com/yungbote/vamshavali-backend/internal/http/middleware"
	"github.com/yungbote/vamshavali-backend/internal/observability"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

type RouterConfig struct {
	Service         string
	Log             *logger.Logger
	Metrics         *observability.Metrics
	CORSOrigins     []string
	MaxRequestBytes int64

	HealthHandler       *httpH.HealthHandler
	RelationshipHandler *httpH.RelationshipHandler
	EdgeHandler         *httpH.EdgeHandler
	RelationTypeHandler *httpH.RelationTypeHandler
	SnapshotHandler     *httpH.SnapshotHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Service != "" {
		r.Use(otelgin.Middleware(cfg.Service))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Relationships
		if cfg.RelationshipHandler != nil {
			api.GET("/relationships", cfg.RelationshipHandler.Get)
			api.POST("/relationships/resolve", cfg.RelationshipHandler.Resolve)
		}

		// Edges
		if cfg.EdgeHandler != nil {
			api.GET("/edges", cfg.EdgeHandler.List)
			api.POST("/edges/label", cfg.EdgeHandler.Label)
		}

		if cfg.RelationTypeHandler != nil {
			api.GET("/relation-types", cfg.RelationTypeHandler.List)
		}

		// Snapshot
		if cfg.SnapshotHandler != nil {
			api.GET("/snapshot", cfg.SnapshotHandler.Get)
			api.POST("/snapshot/refresh", cfg.SnapshotHandler.Refresh)
		}
	}

	return r
}
