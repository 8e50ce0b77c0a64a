package routes

import (
	"net/http"

	adminapi "artmarket-app/internal/api/admin"
	auctionsapi "artmarket-app/internal/api/auctions"
	authapi "artmarket-app/internal/api/auth"
	"artmarket-app/internal/api/billing"
	commissionsapi "artmarket-app/internal/api/commissions"
	mediaapi "artmarket-app/internal/api/media"
	studioapi "artmarket-app/internal/api/studio"
	stripewebhooks "artmarket-app/internal/api/stripewebhook"
	"artmarket-app/internal/api/users"
	worksapi "artmarket-app/internal/api/works"
	"artmarket-app/internal/app/http/middleware"
	"artmarket-app/internal/infra/blob"
	"artmarket-app/internal/metrics"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Services            *services.Services
	Blobs               *blob.Store
	Google              *authapi.GoogleConfig
	StripeWebhookSecret string
	Log                 logrus.FieldLogger
}

func RegisterRoutes(r *gin.Engine, o Options) {
	svc := o.Services
	authH := authapi.NewHandler(svc.Auth, o.Google)
	usersH := users.NewHandler(svc.Accounts)
	worksH := worksapi.NewHandler(svc.Catalog)
	studioH := studioapi.NewHandler(svc.Studio)
	auctionsH := auctionsapi.NewHandler(svc.Auctions)
	billingH := billing.NewHandler(svc.Cart, svc.Orders)
	commissionsH := commissionsapi.NewHandler(svc.Commissions)
	adminH := adminapi.NewHandler(svc.Admin)
	mediaH := mediaapi.NewHandler(o.Blobs)
	webhookH := stripewebhooks.NewHandler(svc.Orders, o.StripeWebhookSecret, o.Log)

	// Signed raw body; must not pass through sanitizing.
	r.POST("/webhook", webhookH.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/media/*key", mediaH.Serve)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authH.Register)
	public.POST("/login", authH.Login)
	public.GET("/auth/google", authH.GoogleStart)
	public.GET("/auth/google/callback", authH.GoogleCallback)

	public.GET("/", worksH.Home)
	public.GET("/artworks", worksH.ListArtworks)
	public.GET("/artworks/:id", worksH.GetArtworkByID)
	public.GET("/artists", usersH.ListArtists)
	public.GET("/artists/:id", usersH.GetArtist)
	public.GET("/artists/:id/auctions", auctionsH.ArtistAuctions)
	public.GET("/auctions", auctionsH.ListAuctions)
	public.GET("/auctions/winners", auctionsH.Winners)
	public.GET("/auctions/:id", auctionsH.GetAuction)
	public.GET("/studio/styles", studioH.Styles)
	public.GET("/commissions/art-types", commissionsH.ArtTypes)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(svc.Auth, o.Log), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", usersH.GetCurrentUser)
	auth.PUT("/me", usersH.UpdateProfile)
	auth.POST("/me/profile-image", usersH.UploadProfileImage)
	auth.POST("/change-password", authH.ChangePassword)
	auth.POST("/artists/:id/rate", usersH.RateArtist)
	auth.GET("/dashboard", usersH.Dashboard)

	auth.POST("/artworks", worksH.CreateArtwork)
	auth.GET("/my-artworks", worksH.MyArtworks)
	auth.POST("/artworks/:id/auction", auctionsH.CreateAuction)

	auth.POST("/studio/generate", studioH.Generate)
	auth.POST("/studio/save", studioH.SaveConcept)

	auth.POST("/auctions/:id/bid", auctionsH.PlaceBid)
	auth.POST("/auctions/:id/close", auctionsH.CloseAuction)

	auth.GET("/cart", billingH.GetCart)
	auth.POST("/add-to-cart/:artwork_id", billingH.AddToCart)
	auth.POST("/remove-from-cart/:item_id", billingH.RemoveFromCart)
	auth.POST("/checkout/:artwork_id", billingH.Checkout)
	auth.POST("/payment/:order_id", billingH.Pay)
	auth.GET("/orders", billingH.MyOrders)
	auth.GET("/orders/:order_id", billingH.GetOrder)
	auth.POST("/orders/:order_id/cancel", billingH.CancelOrder)
	auth.GET("/payments/:id", billingH.GetPayment)

	auth.POST("/commissions", commissionsH.Create)
	auth.GET("/commissions", commissionsH.Mine)
	auth.GET("/commissions/board", commissionsH.ArtistBoard)
	auth.GET("/commissions/:id", commissionsH.Detail)
	auth.POST("/commissions/:id/status", commissionsH.UpdateStatus)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(svc.Auth, o.Log), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminH.AdminDashboard)
	admin.GET("/users", adminH.ListAllUsers)
	admin.GET("/payments", adminH.ListAllPayments)
	admin.POST("/auctions/sweep", adminH.SweepAuctions)
}
