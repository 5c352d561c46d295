package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/avetrov/Tandem/internal/adapters/signal"
	"github.com/avetrov/Tandem/internal/app"
	"github.com/avetrov/Tandem/internal/config"
)

func genClientToken() string {
	return uuid.NewString()
}

// IdentityMiddleware keeps a stable client token cookie and, when the
// auth subsystem has stored a display identity in the session, exposes
// it to the WS handler. The coordinator only ever sees the resulting
// opaque string; no auth decision happens here or below.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)

		sess := sessions.Default(c)
		if v, ok := sess.Get("identity").(string); ok && v != "" {
			c.Set("identity", v)
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, hub *app.Coordinator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("TandemSessions", store))
	r.Use(IdentityMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("module", "adapters.http").Msg("router setup")

	ctrl := signal.NewController(cfg, hub)

	api := r.Group("/api")

	// One-shot room listing; the live feed is rooms_update over the WS.
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Rooms())
	})

	api.GET("/ws", func(c *gin.Context) {
		ctrl.HandleWS(ctx, c)
	})

	return r
}
