package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chatline/chatline/internal/adapters/signal"
	"github.com/chatline/chatline/internal/app"
	"github.com/chatline/chatline/internal/auth"
	"github.com/chatline/chatline/internal/config"
	"github.com/chatline/chatline/internal/domain"
)

func SetupRouter(ctx context.Context, cfg *config.Config, relay *app.Relay) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ChatlineSessions", store))

	codec := auth.NewCodec(cfg.Secret)

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.httpapi").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.POST("/auth/login", loginHandler(codec))

	ctrl := signal.NewController(relay, cfg)
	ws := api.Group("/ws")
	ws.Use(auth.Middleware(codec))
	ws.GET("/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	return r
}

// loginHandler is the minimal credential issuer: pick a username, get the
// signed identity cookie the signaling endpoint requires. A full account
// system would replace this handler, nothing else.
func loginHandler(codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Avatar   string `json:"avatar"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
			return
		}

		user, err := domain.NewUser(req.Username)
		if err != nil {
			if errors.Is(err, domain.ErrUsernameTooLong) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "username too long"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
			return
		}
		user.Avatar = req.Avatar

		value, err := codec.Issue(auth.Credential{
			UserID:   user.ID,
			Username: user.Username,
			Avatar:   user.Avatar,
		})
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.httpapi").Msg("issue credential")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}

		sess := sessions.Default(c)
		sess.Set("uid", string(user.ID))
		if err := sess.Save(); err != nil {
			log.Warn().Err(err).Str("module", "adapters.httpapi").Msg("session save")
		}

		c.SetCookie(auth.CookieName, value, 3600*24*7, "/", "", false, true)
		c.JSON(http.StatusOK, user)

		log.Info().Str("module", "adapters.httpapi").Str("uid", string(user.ID)).Str("username", user.Username).Msg("issued credential")
	}
}
