package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *API) registerRoutes(e *echo.Echo) {
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"ok":        true,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	a.registerAuthRoutes(api)
	a.registerVideoRoutes(api)
	a.registerUploadRoutes(api)
}

func (a *API) registerAuthRoutes(api *echo.Group) {
	g := api.Group("/auth")
	g.POST("/login", a.handler.Login)
	g.POST("/register", a.handler.Register)
	g.GET("/verify", a.handler.VerifyToken, a.auth.Middleware)
}

func (a *API) registerVideoRoutes(api *echo.Group) {
	g := api.Group("/videos")
	g.GET("", a.handler.ListVideos)
	g.GET("/nog/:nog", a.handler.GetVideoByNog)
	g.GET("/:id", a.handler.GetVideo)
	g.POST("/:id/like", a.handler.LikeVideo)

	g.POST("", a.handler.CreateVideo, a.auth.Middleware)
	g.PUT("/:id", a.handler.UpdateVideo, a.auth.Middleware)
	g.PATCH("/:id", a.handler.UpdateVideo, a.auth.Middleware)
	g.DELETE("/:id", a.handler.DeleteVideo, a.auth.Middleware)
	g.POST("/:id/additional", a.handler.AddAdditionalVideo, a.auth.Middleware)
}

func (a *API) registerUploadRoutes(api *echo.Group) {
	g := api.Group("/upload")
	g.GET("/stream", a.handler.StreamVideo)
	g.GET("/list", a.handler.ListUploads, a.auth.Middleware)
	g.POST("/video", a.handler.UploadVideo, a.auth.Middleware)
	g.POST("/multiple", a.handler.UploadMultiple, a.auth.Middleware)
	g.DELETE("/:identifier", a.handler.DeleteUpload, a.auth.Middleware)
}
