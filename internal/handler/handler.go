package handler

import (
	"github.com/Lee-sungheon/Loopin/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Config struct {
	ClientOrigin string
	AccessSecret []byte
}

type Handler struct {
	logger       *zap.Logger
	services     *service.Service
	clientOrigin string
	accessSecret []byte
}

const defaultClientOrigin = "http://localhost:5173"

func New(logger *zap.Logger, services *service.Service, cfg Config) *Handler {
	if cfg.ClientOrigin == "" {
		cfg.ClientOrigin = defaultClientOrigin
	}

	return &Handler{
		logger:       logger,
		services:     services,
		clientOrigin: cfg.ClientOrigin,
		accessSecret: cfg.AccessSecret,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.loggerMiddleware)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.clientOrigin},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("/club", h.authMiddleware, h.postsCreateClub)
			posts.POST("/challenge", h.authMiddleware, h.postsCreateChallenge)
			posts.POST("/lounge", h.authMiddleware, h.postsCreateLounge)
			posts.POST("/socialing", h.authMiddleware, h.postsCreateSocialing)

			category := posts.Group("/:category")
			{
				category.GET("", h.postsLoad)
				category.GET("/:postID", h.postsGet)
				category.PATCH("/:postID", h.authMiddleware, h.postsUpdate)
				category.DELETE("/:postID", h.authMiddleware, h.postsDelete)
			}
		}

		users := v1.Group("/users")
		{
			users.GET("/me/posts", h.authMiddleware, h.usersGetMyPosts)
		}
	}

	return r
}
