package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/handler"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth  *handler.AuthHandler
	Quiz  *handler.QuizHandler
	Media *handler.MediaHandler
	Page  *handler.PageHandler

	Article *handler.ArticleHandler
	Ebook   *handler.EbookHandler
	Paper   *handler.PaperHandler

	AffairsTaxonomy *handler.TaxonomyHandler
	EbookTaxonomy   *handler.TaxonomyHandler
	PaperTaxonomy   *handler.TaxonomyHandler
	QuizTaxonomy    *handler.TaxonomyHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)

		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
		auth.POST("/change-password", middleware.RequireJWT(authService), handlers.Auth.ChangePassword)
	}

	// ─── 2. Current Affairs (Public) ───────────────────────────────────
	affairs := router.Group("/api/v1/currentaffairs")
	{
		affairs.GET("/categories", handlers.AffairsTaxonomy.ListCategories)
		affairs.GET("/categories/:category/subcategories", handlers.AffairsTaxonomy.ListSubcategories)
		affairs.GET("/articles/:article_id", handlers.Article.GetArticle)
		affairs.GET("/:category", handlers.Article.CategoryLanding)
		affairs.GET("/:category/:subcategory", handlers.Article.ListArticles)
	}

	// ─── 3. E-books (Public) ───────────────────────────────────────────
	ebooks := router.Group("/api/v1/ebooks")
	{
		ebooks.GET("/categories", handlers.EbookTaxonomy.ListCategories)
		ebooks.GET("/categories/:category/subcategories", handlers.EbookTaxonomy.ListSubcategories)
		ebooks.GET("/items/:ebook_id", handlers.Ebook.GetEbook)
		ebooks.POST("/items/:ebook_id/download", handlers.Ebook.TrackDownload)
		ebooks.GET("/:category/:subcategory", handlers.Ebook.ListEbooks)
	}

	// ─── 4. Previous Papers (Public) ───────────────────────────────────
	papers := router.Group("/api/v1/papers")
	{
		papers.GET("/categories", handlers.PaperTaxonomy.ListCategories)
		papers.GET("/categories/:category/subcategories", handlers.PaperTaxonomy.ListSubcategories)
		papers.POST("/items/:paper_id/download", handlers.Paper.TrackDownload)
		papers.GET("/:category/:subcategory", handlers.Paper.ListPapers)
	}

	// ─── 5. Quizzes ────────────────────────────────────────────────────
	// Submit runs behind OptionalJWT: a valid bearer token makes the
	// attempt persist and rank; anything else scores as a guest.
	quizzes := router.Group("/api/v1/quizzes")
	{
		quizzes.GET("/categories", handlers.QuizTaxonomy.ListCategories)
		quizzes.GET("/categories/:category/subcategories", handlers.QuizTaxonomy.ListSubcategories)
		quizzes.GET("/attempts", middleware.RequireJWT(authService), handlers.Quiz.ListMyAttempts)
		quizzes.GET("/items/:quiz_id/meta", handlers.Quiz.GetQuizMeta)
		quizzes.GET("/items/:quiz_id/start", handlers.Quiz.StartQuiz)
		quizzes.POST("/items/:quiz_id/submit", middleware.OptionalJWT(authService, log), handlers.Quiz.SubmitQuiz)
		quizzes.GET("/items/:quiz_id/solutions", middleware.RequireJWT(authService), handlers.Quiz.GetSolutions)
		quizzes.GET("/:category/:subcategory", handlers.Quiz.ListQuizzes)
	}

	// ─── 6. CMS Pages (Public) ─────────────────────────────────────────
	pages := router.Group("/api/v1/pages")
	{
		pages.GET("/:slug", handlers.Page.GetPage)
	}

	// ─── 7. Admin Group (JWT + Admin Role) ─────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireJWT(authService), middleware.RequireAdmin())
	{
		// Taxonomy management, one subtree per content vertical.
		registerTaxonomyAdmin(adminAPI.Group("/currentaffairs"), handlers.AffairsTaxonomy)
		registerTaxonomyAdmin(adminAPI.Group("/ebooks"), handlers.EbookTaxonomy)
		registerTaxonomyAdmin(adminAPI.Group("/papers"), handlers.PaperTaxonomy)
		registerTaxonomyAdmin(adminAPI.Group("/quizzes"), handlers.QuizTaxonomy)

		// Current affairs content
		adminAPI.POST("/currentaffairs/:category/:subcategory/articles", handlers.Article.CreateArticle)
		adminAPI.PUT("/currentaffairs/articles/:article_id", handlers.Article.UpdateArticle)
		adminAPI.DELETE("/currentaffairs/articles/:article_id", handlers.Article.DeleteArticle)

		// E-book content
		adminAPI.POST("/ebooks/:category/:subcategory/items", handlers.Ebook.CreateEbook)
		adminAPI.PUT("/ebooks/items/:ebook_id", handlers.Ebook.UpdateEbook)
		adminAPI.DELETE("/ebooks/items/:ebook_id", handlers.Ebook.DeleteEbook)

		// Paper content
		adminAPI.POST("/papers/:category/:subcategory/items", handlers.Paper.CreatePaper)
		adminAPI.PUT("/papers/items/:paper_id", handlers.Paper.UpdatePaper)
		adminAPI.DELETE("/papers/items/:paper_id", handlers.Paper.DeletePaper)

		// Quiz content
		adminAPI.POST("/quizzes/:category/:subcategory", handlers.Quiz.CreateQuiz)
		adminAPI.PUT("/quizzes/items/:quiz_id", handlers.Quiz.UpdateQuiz)
		adminAPI.DELETE("/quizzes/items/:quiz_id", handlers.Quiz.DeleteQuiz)

		// CMS pages
		adminAPI.GET("/pages", handlers.Page.ListPages)
		adminAPI.PUT("/pages", handlers.Page.UpsertPage)
		adminAPI.DELETE("/pages/:slug", handlers.Page.DeletePage)

		// Media
		adminAPI.POST("/media/upload", handlers.Media.UploadMedia)
		adminAPI.GET("/media", handlers.Media.ListMedia)
		adminAPI.DELETE("/media/:media_id", handlers.Media.DeleteMedia)
	}

	return router
}

func registerTaxonomyAdmin(g *gin.RouterGroup, h *handler.TaxonomyHandler) {
	g.POST("/categories", h.CreateCategory)
	g.PUT("/categories/:category", h.UpdateCategory)
	g.DELETE("/categories/:category", h.DeleteCategory)
	g.POST("/categories/:category/subcategories", h.CreateSubcategory)
	g.PUT("/categories/:category/subcategories/:subcategory", h.UpdateSubcategory)
	g.DELETE("/categories/:category/subcategories/:subcategory", h.DeleteSubcategory)
}
