package routes

import (
	"github.com/SketchShifter/midpoint_backend/internal/config"
	"github.com/SketchShifter/midpoint_backend/internal/controllers"
	"github.com/SketchShifter/midpoint_backend/internal/middlewares"
	"github.com/SketchShifter/midpoint_backend/internal/repository"
	"github.com/SketchShifter/midpoint_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRouter ルーターを設定
func SetupRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client, storage services.StorageService) *gin.Engine {
	// Ginルーターを作成
	r := gin.Default()

	// ミドルウェアを設定
	r.Use(middlewares.ErrorMiddleware())
	r.Use(middlewares.CORSMiddleware())

	controllers.RegisterValidators()

	// リポジトリを作成
	store := repository.NewStore(db)

	// サービスを作成
	tokenService := services.NewTokenService(rdb, cfg)
	emailService := services.NewEmailService(rdb)
	authService := services.NewAuthService(store, tokenService)
	memberService := services.NewMemberService(store, storage, emailService, tokenService, cfg)
	postService := services.NewPostService(store, storage, cfg)
	historyService := services.NewSearchHistoryService(store)

	// コントローラーを作成
	authController := controllers.NewAuthController(authService, memberService)
	memberController := controllers.NewMemberController(memberService)
	postController := controllers.NewPostController(postService)
	historyController := controllers.NewSearchHistoryController(historyService)
	uploadController := controllers.NewUploadController(storage)
	healthController := controllers.NewHealthController(db, rdb)

	// 認証ミドルウェア
	authMiddleware := middlewares.AuthMiddleware(authService)
	optionalAuthMiddleware := middlewares.OptionalAuthMiddleware(authService)

	// APIグループを作成
	api := r.Group("/api")
	{
		// ヘルスチェックルート（認証不要）
		api.GET("/health", healthController.Check)

		// 認証ルート
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authController.SignUp)
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.Refresh)
			auth.POST("/logout", authController.Logout)
			auth.POST("/check-email", authController.CheckEmail)
			auth.POST("/check-nickname", authController.CheckNickname)
			auth.POST("/check-loginid", authController.CheckLoginID)
			auth.POST("/verify-name-email", authController.VerifyNameEmail)
			auth.POST("/reset-pw", authController.ResetPassword)
		}

		// 会員ルート
		member := api.Group("/member", authMiddleware)
		{
			member.GET("/profile", memberController.GetProfile)
			member.PATCH("/profile", memberController.UpdateProfile)
			member.POST("/verify-pw", memberController.VerifyPassword)
			member.DELETE("", memberController.DeleteMember)
		}

		// 投稿ルート
		posts := api.Group("/posts")
		{
			// 認証不要
			posts.GET("", optionalAuthMiddleware, postController.List)
			posts.GET("/mine", authMiddleware, postController.Mine)
			posts.GET("/:postId", optionalAuthMiddleware, postController.GetByID)

			// 認証が必要
			posts.POST("", authMiddleware, postController.Create)
			posts.PATCH("/:postId", authMiddleware, postController.Update)
			posts.DELETE("/:postId", authMiddleware, postController.Delete)
			posts.POST("/:postId/likes", authMiddleware, postController.ToggleLike)
		}

		// 検索履歴ルート
		history := api.Group("/search-history-v2", authMiddleware)
		{
			history.POST("", historyController.Save)
			history.GET("", historyController.List)
		}

		// ストレージ動作確認ルート
		api.POST("/s3/test", uploadController.UploadFile)
		api.DELETE("/s3/test1", uploadController.DeleteFile)
	}

	return r
}
