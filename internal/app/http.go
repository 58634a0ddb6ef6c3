package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/config"
	apphttp "github.com/yungbote/vamshavali-backend/internal/http"
	httpH "github.com/yungbote/vamshavali-backend/internal/http/handlers"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/observability"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Relationship *httpH.RelationshipHandler
	Edge         *httpH.EdgeHandler
	RelationType *httpH.RelationTypeHandler
	Snapshot     *httpH.SnapshotHandler
}

func wireHandlers(engine *kinship.Engine) (Handlers, error) {
	types, err := httpH.NewRelationTypeHandler()
	if err != nil {
		return Handlers{}, err
	}
	return Handlers{
		Health:       httpH.NewHealthHandler(engine),
		Relationship: httpH.NewRelationshipHandler(engine),
		Edge:         httpH.NewEdgeHandler(engine),
		RelationType: types,
		Snapshot:     httpH.NewSnapshotHandler(engine),
	}, nil
}

func wireRouter(cfg *config.Config, log *logger.Logger, metrics *observability.Metrics, h Handlers) *gin.Engine {
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	return apphttp.NewRouter(apphttp.RouterConfig{
		Service:             cfg.Service,
		Log:                 log,
		Metrics:             metrics,
		CORSOrigins:         cfg.HTTP.CORSOrigins,
		MaxRequestBytes:     cfg.HTTP.MaxRequestBytes,
		HealthHandler:       h.Health,
		RelationshipHandler: h.Relationship,
		EdgeHandler:         h.Edge,
		RelationTypeHandler: h.RelationType,
		SnapshotHandler:     h.Snapshot,
	})
}
