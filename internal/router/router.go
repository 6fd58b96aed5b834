package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/gigmarket/gigmarket/docs"
	"github.com/gigmarket/gigmarket/internal/config"
	"github.com/gigmarket/gigmarket/internal/infra/identity"
	"github.com/gigmarket/gigmarket/internal/middleware"
	"github.com/gigmarket/gigmarket/internal/modules/handler"
	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/telemetry"
)

type RouterDeps struct {
	Config   *config.Config
	Log      *zap.Logger
	Verifier identity.Verifier
	Users    middleware.UserLookup
	Gatherer prometheus.Gatherer

	ProjectHandler  *handler.ProjectHandler
	OfferHandler    *handler.OfferHandler
	FavoriteHandler *handler.FavoriteHandler
	MediaHandler    *handler.MediaHandler
	ReviewHandler   *handler.ReviewHandler
	OrderHandler    *handler.OrderHandler
	UserHandler     *handler.UserHandler
	CategoryHandler *handler.CategoryHandler
	LiveHandler     *handler.LiveHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	// Initialize logger for serializer package
	serializer.SetLogger(d.Log)
	handler.RegisterValidations()

	r := gin.New()
	r.Use(gin.Recovery())

	if telemetry.Enabled(d.Config) {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		// Add trace ID to response header
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// metrics
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.Identity(d.Verifier, d.Users, d.Log))

		v1.GET("/categories", d.CategoryHandler.ListCategories)

		projects := v1.Group("/projects")
		{
			projects.POST("", d.ProjectHandler.CreateProject)
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.GET("/stats", d.ProjectHandler.GetSellerStats)
			projects.GET("/:id", d.ProjectHandler.GetProject)
			projects.DELETE("/:id", d.ProjectHandler.DeleteProject)

			projects.PATCH("/:id/title", d.ProjectHandler.RenameProject)
			projects.PATCH("/:id/description", d.ProjectHandler.UpdateDescription)
			projects.POST("/:id/publish", d.ProjectHandler.PublishProject)
			projects.POST("/:id/unpublish", d.ProjectHandler.UnpublishProject)
			projects.GET("/:id/published", d.ProjectHandler.IsPublished)
			projects.GET("/:id/category", d.ProjectHandler.GetCategory)
			projects.POST("/:id/click", d.ProjectHandler.RecordClick)

			projects.POST("/:id/favorite", d.FavoriteHandler.Favorite)
			projects.DELETE("/:id/favorite", d.FavoriteHandler.Unfavorite)

			projects.GET("/:id/offers", d.OfferHandler.ListOffers)
			projects.POST("/:id/offers", d.OfferHandler.UpsertOffer)

			projects.GET("/:id/reviews", d.ReviewHandler.ListReviews)
			projects.GET("/:id/reviews/full", d.ReviewHandler.ListFullReviews)
			projects.POST("/:id/reviews", d.ReviewHandler.AddReview)

			projects.GET("/:id/orders", d.OrderHandler.ListOrders)
			projects.POST("/:id/orders", d.OrderHandler.CreateOrder)

			projects.GET("/:id/media", d.MediaHandler.ListMedia)
			projects.POST("/:id/media", d.MediaHandler.AttachMedia)
			projects.POST("/:id/media/upload", d.MediaHandler.UploadMedia)
		}

		media := v1.Group("/media")
		{
			media.POST("/upload_url", d.MediaHandler.GenerateUploadURL)
			media.DELETE("/:storage_id", d.MediaHandler.DetachMedia)
			media.GET("/:storage_id/url", d.MediaHandler.GetMediaURL)
		}

		users := v1.Group("/users")
		{
			users.GET("/me", d.UserHandler.GetCurrentUser)
			users.POST("/me", d.UserHandler.StoreCurrentUser)
			users.GET("/:username", d.UserHandler.GetUser)
			users.GET("/:username/projects", d.ProjectHandler.ListSellerProjects)
			users.GET("/:username/projects/images", d.ProjectHandler.ListSellerProjectsWithImages)
			users.GET("/:username/reviews", d.ReviewHandler.ListSellerReviews)
		}

		v1.GET("/sellers/:id", d.UserHandler.GetSeller)
		v1.GET("/live/:op", d.LiveHandler.Subscribe)
	}
	return r
}
