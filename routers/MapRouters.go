package routers

import (
	"github.com/GrainArc/MarkMap/config"
	"github.com/GrainArc/MarkMap/middleware"
	"github.com/GrainArc/MarkMap/models"
	"github.com/GrainArc/MarkMap/services"
	"github.com/GrainArc/MarkMap/storage"
	"github.com/GrainArc/MarkMap/views"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MapRouters 注册全部API路由
func MapRouters(r *gin.Engine) {
	Register(r, models.DB, config.Download)
}

// Register 按指定数据库和文件目录装配路由，测试时直接调用
func Register(r *gin.Engine, db *gorm.DB, download string) {
	blobs := storage.NewBlobStore(download)

	mapService := services.NewMapService(db, blobs)
	layerService := services.NewLayerService(db, mapService)
	poiService := services.NewPOIService(db, mapService)
	shareService := services.NewShareService(db, mapService)
	categoryService := services.NewCategoryService(db)
	accountService := services.NewAccountService(db, mapService, blobs)

	mapHandler := views.NewMapHandler(mapService, poiService, shareService)
	layerHandler := views.NewLayerHandler(layerService)
	poiHandler := views.NewPOIHandler(poiService)
	shareHandler := views.NewShareHandler(shareService)
	categoryHandler := views.NewCategoryHandler(categoryService)
	accountHandler := views.NewAccountHandler(accountService)

	auth := middleware.TokenAuth(&middleware.TokenProvider{DB: db})

	AccountRouter := r.Group("/api/accounts")
	{
		AccountRouter.POST("/register", accountHandler.Register)
		AccountRouter.POST("/login", accountHandler.Login)
		AccountRouter.POST("/logout", auth, accountHandler.Logout)
		AccountRouter.GET("/me", auth, accountHandler.Me)
		AccountRouter.PUT("/me", auth, accountHandler.UpdateMe)
		AccountRouter.POST("/password", auth, accountHandler.ChangePassword)
		AccountRouter.DELETE("/delete", auth, accountHandler.DeleteAccount)
		AccountRouter.GET("/users/search", auth, accountHandler.SearchUsers)
	}

	MapRouter := r.Group("/api/maps", auth)
	{
		MapRouter.GET("", mapHandler.List)
		MapRouter.POST("", mapHandler.Create)
		MapRouter.GET("/my-maps", mapHandler.MyMaps)
		MapRouter.GET("/shared-with-me", mapHandler.SharedWithMe)
		MapRouter.GET("/public", mapHandler.PublicMaps)
		MapRouter.GET("/:id", mapHandler.Get)
		MapRouter.PUT("/:id", mapHandler.Update)
		MapRouter.DELETE("/:id", mapHandler.Delete)
		MapRouter.GET("/:id/layers", mapHandler.Layers)
		MapRouter.GET("/:id/pois", mapHandler.POIs)
		MapRouter.POST("/:id/share", mapHandler.Share)
		MapRouter.GET("/:id/shared_users", mapHandler.SharedUsers)
		MapRouter.GET("/:id/my_permission", mapHandler.MyPermission)
	}

	LayerRouter := r.Group("/api/layers", auth)
	{
		LayerRouter.GET("", layerHandler.List)
		LayerRouter.POST("", layerHandler.Create)
		LayerRouter.GET("/:id", layerHandler.Get)
		LayerRouter.PUT("/:id", layerHandler.Update)
		LayerRouter.DELETE("/:id", layerHandler.Delete)
	}

	POIRouter := r.Group("/api/pois", auth)
	{
		POIRouter.GET("", poiHandler.List)
		POIRouter.POST("", poiHandler.Create)
		POIRouter.GET("/by_layer", poiHandler.ByLayer)
		POIRouter.GET("/:id", poiHandler.Get)
		POIRouter.PUT("/:id", poiHandler.Update)
		POIRouter.DELETE("/:id", poiHandler.Delete)
	}

	ShareRouter := r.Group("/api/shares", auth)
	{
		ShareRouter.GET("", shareHandler.List)
		ShareRouter.PUT("/:id", shareHandler.Update)
		ShareRouter.DELETE("/:id", shareHandler.Delete)
	}

	CategoryRouter := r.Group("/api/categories", auth)
	{
		CategoryRouter.GET("", categoryHandler.List)
		CategoryRouter.POST("", categoryHandler.Create)
		CategoryRouter.PUT("/:id", categoryHandler.Update)
		CategoryRouter.DELETE("/:id", categoryHandler.Delete)
	}

	// 上传的地图文件
	r.Static("/media", download)
}
