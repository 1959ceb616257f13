package router

import (
	"fmt"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/config"
	"github.com/blues/mintpad/internal/handler"
	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/wallclock"
	"github.com/blues/mintpad/internal/whitelist"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	defaultZone, err := wallclock.LoadZone(cfg.Mint.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid mint.default_timezone: %w", err)
	}

	// 白名单资格查询走 LRU 缓存，写操作后失效
	whitelistLogic := logic.NewWhitelistLogic(db)
	cachedStore, err := whitelist.NewCachedStore(whitelistLogic, cfg.Mint.WhitelistCacheSize)
	if err != nil {
		return nil, err
	}
	whitelistLogic.SetInvalidator(cachedStore)

	collectionHandler := handler.NewCollectionHandler(logic.NewCollectionLogic(db))
	phaseHandler := handler.NewPhaseHandler(logic.NewPhaseLogic(db, cachedStore, defaultZone), defaultZone)
	whitelistHandler := handler.NewWhitelistHandler(whitelistLogic)
	launchHandler := handler.NewLaunchHandler(logic.NewLaunchLogic(db))
	mintHandler := handler.NewMintHandler(logic.NewMintLogic(db, cachedStore), defaultZone)
	estimateHandler := handler.NewEstimateHandler(cfg.Mint.InscriptionLimitKB)

	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "mintpad",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	v1.Use(handler.AuthMiddleware(auth.NewResolver(cfg.Auth.AdminWallets)))
	{
		v1.POST("/estimate", estimateHandler.Estimate)

		// 集合相关路由
		collections := v1.Group("/collections")
		{
			collections.GET("", collectionHandler.GetCollections)
			collections.GET("/:id", collectionHandler.GetCollection)
			collections.GET("/:id/phases", phaseHandler.GetPhases)
			collections.GET("/:id/whitelists", whitelistHandler.GetWhitelists)
			collections.GET("/:id/mint-status", mintHandler.GetMintStatus)
			collections.GET("/:id/mints", mintHandler.GetMints)
			collections.GET("/:id/transitions", launchHandler.GetHistory)

			owned := collections.Group("", handler.RequireWallet())
			owned.POST("", collectionHandler.CreateCollection)
			owned.PUT("/:id", collectionHandler.UpdateCollection)
			owned.POST("/:id/phases", phaseHandler.CreatePhase)
			owned.POST("/:id/whitelists", whitelistHandler.CreateWhitelist)
			owned.POST("/:id/mints", mintHandler.RecordMint)

			owned.POST("/:id/transition", launchHandler.Transition)
			owned.POST("/:id/submit", launchHandler.Submit)
			owned.POST("/:id/go-live", launchHandler.GoLive)
			owned.POST("/:id/end-live", launchHandler.EndLive)
			owned.POST("/:id/revert", launchHandler.RevertToDraft)
			owned.POST("/:id/complete", launchHandler.Complete)
		}

		// 阶段相关路由
		phases := v1.Group("/phases")
		{
			phases.GET("/:id", phaseHandler.GetPhase)

			owned := phases.Group("", handler.RequireWallet())
			owned.PUT("/:id", phaseHandler.UpdatePhase)
			owned.DELETE("/:id", phaseHandler.DeletePhase)
			owned.POST("/:id/pause", phaseHandler.PausePhase)
			owned.POST("/:id/resume", phaseHandler.ResumePhase)
			owned.POST("/:id/complete", phaseHandler.CompletePhase)
		}

		// 白名单相关路由
		whitelists := v1.Group("/whitelists")
		{
			whitelists.GET("/:id/entries", whitelistHandler.GetEntries)

			owned := whitelists.Group("", handler.RequireWallet())
			owned.DELETE("/:id", whitelistHandler.DeleteWhitelist)
			owned.POST("/:id/entries", whitelistHandler.AddEntries)
			owned.DELETE("/:id/entries/:address", whitelistHandler.RemoveEntry)
		}
	}

	return r, nil
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, "+handler.WalletHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
