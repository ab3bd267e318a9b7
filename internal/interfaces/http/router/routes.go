package router

import (
	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Brand     *handler.BrandHandler
	Review    *handler.ReviewHandler
	Inventory *handler.InventoryHandler
	Cart      *handler.CartHandler
	Promotion *handler.PromotionHandler
	Checkout  *handler.CheckoutHandler
	Order     *handler.OrderHandler
	Payment   *handler.PaymentHandler
	Upload    *handler.UploadHandler
	Article   *handler.ArticleHandler
	Banner    *handler.BannerHandler
	Ticket    *handler.TicketHandler
	Warranty  *handler.WarrantyHandler
	Report    *handler.ReportHandler
	Outbox    *handler.OutboxHandler
	System    *handler.SystemHandler
}

// Guards are the access middlewares applied per route group.
// AuthLimit may be nil when auth rate limiting is disabled.
type Guards struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Admin        gin.HandlerFunc
	AuthLimit    gin.HandlerFunc
}

func (g Guards) admin() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth, g.Admin}
}

func (g Guards) limited() []gin.HandlerFunc {
	if g.AuthLimit == nil {
		return nil
	}
	return []gin.HandlerFunc{g.AuthLimit}
}

// Groups builds the storefront and back office route groups
func Groups(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h, g),
		userRoutes(h, g),
		catalogRoutes(h, g),
		shoppingRoutes(h, g),
		orderRoutes(h, g),
		paymentRoutes(h, g),
		contentRoutes(h),
		supportRoutes(h, g),
		uploadRoutes(h, g),
		adminRoutes(h, g),
		systemRoutes(h),
	}
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")

	public := auth.Group("auth-public", "").Use(g.limited()...)
	public.POST("/register", h.Auth.Register)
	public.POST("/verify-email", h.Auth.VerifyEmail)
	public.POST("/resend-verification", h.Auth.ResendVerification)
	public.POST("/login", h.Auth.Login)
	public.POST("/refresh", h.Auth.Refresh)

	auth.GET("/oauth2/google", h.Auth.GoogleLogin)
	auth.GET("/oauth2/google/callback", h.Auth.GoogleCallback)

	session := auth.Group("auth-session", "").Use(g.Auth)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.User.Me)

	return auth
}

func userRoutes(h Handlers, g Guards) *DomainGroup {
	me := NewDomainGroup("users", "/users/me").Use(g.Auth)
	me.PUT("", h.User.UpdateProfile)
	me.PUT("/password", h.User.ChangePassword)
	me.GET("/addresses", h.User.ListAddresses)
	me.POST("/addresses", h.User.CreateAddress)
	me.PUT("/addresses/:id", h.User.UpdateAddress)
	me.PATCH("/addresses/:id/default", h.User.SetDefaultAddress)
	me.DELETE("/addresses/:id", h.User.DeleteAddress)
	return me
}

func catalogRoutes(h Handlers, g Guards) *DomainGroup {
	// OptionalAuth lets admins see inactive categories and brands with ?all=true
	catalog := NewDomainGroup("catalog", "").Use(g.OptionalAuth)

	catalog.GET("/products", h.Product.List)
	catalog.GET("/products/:id", h.Product.Get)
	catalog.GET("/products/:id/reviews", h.Review.ListForProduct)
	catalog.GET("/categories", h.Category.List)
	catalog.GET("/categories/:id", h.Category.Get)
	catalog.GET("/brands", h.Brand.List)
	catalog.GET("/brands/:id", h.Brand.Get)

	reviews := catalog.Group("reviews", "").Use(g.Auth)
	reviews.POST("/products/:id/reviews", h.Review.Create)
	reviews.DELETE("/reviews/:id", h.Review.Delete)

	return catalog
}

func shoppingRoutes(h Handlers, g Guards) *DomainGroup {
	shop := NewDomainGroup("shopping", "")

	guest := shop.Group("shopping-guest", "").Use(g.OptionalAuth)
	guest.GET("/promotions/validate", h.Promotion.Validate)
	guest.POST("/checkout/quote", h.Checkout.Quote)

	cart := shop.Group("cart", "/cart").Use(g.Auth)
	cart.GET("", h.Cart.Get)
	cart.GET("/count", h.Cart.Count)
	cart.POST("/add", h.Cart.Add)
	cart.PUT("/update", h.Cart.Update)
	cart.DELETE("/remove/:productId", h.Cart.Remove)
	cart.DELETE("/clear", h.Cart.Clear)
	cart.POST("/merge", h.Cart.Merge)

	return shop
}

func orderRoutes(h Handlers, g Guards) *DomainGroup {
	orders := NewDomainGroup("orders", "/orders")

	// reached from the confirmation email, the token is the credential
	orders.Group("orders-public", "").Use(g.limited()...).
		POST("/confirm", h.Order.ConfirmByLink)

	customer := orders.Group("orders-customer", "").Use(g.Auth)
	customer.POST("", h.Checkout.PlaceOrder)
	customer.GET("/my-orders", h.Order.MyOrders)
	customer.GET("/:id", h.Order.Get)
	customer.PATCH("/:id/cancel", h.Order.Cancel)
	customer.GET("/:id/invoice", h.Order.Invoice)

	manage := customer.Group("orders-admin", "").Use(g.Admin)
	manage.GET("", h.Order.List)
	manage.PATCH("/:id/confirm", h.Order.Confirm)
	manage.PATCH("/:id/ship", h.Order.Ship)
	manage.PATCH("/:id/deliver", h.Order.Deliver)
	manage.PUT("/:id", h.Order.Update)
	manage.DELETE("/:id", h.Order.Delete)

	return orders
}

func paymentRoutes(h Handlers, g Guards) *DomainGroup {
	vnpay := NewDomainGroup("vnpay", "/vnpay")

	// called by the browser redirect and by VNPay servers
	vnpay.GET("/payment-callback", h.Payment.Callback)
	vnpay.GET("/ipn", h.Payment.IPN)
	vnpay.POST("/ipn", h.Payment.IPN)

	vnpay.Group("vnpay-customer", "").Use(g.Auth).
		POST("/create-payment", h.Payment.CreatePayment)
	vnpay.Group("vnpay-admin", "").Use(g.admin()...).
		POST("/validate-signature", h.Payment.ValidateSignature)

	return vnpay
}

func contentRoutes(h Handlers) *DomainGroup {
	content := NewDomainGroup("content", "")
	content.GET("/articles", h.Article.ListPublished)
	content.GET("/articles/:slug", h.Article.GetBySlug)
	content.GET("/banners", h.Banner.Live)
	return content
}

func supportRoutes(h Handlers, g Guards) *DomainGroup {
	support := NewDomainGroup("support", "").Use(g.Auth)

	support.POST("/support/tickets", h.Ticket.Create)
	support.GET("/support/tickets/mine", h.Ticket.Mine)
	support.GET("/support/tickets/:id", h.Ticket.Get)

	support.POST("/warranty", h.Warranty.Submit)
	support.GET("/warranty/mine", h.Warranty.Mine)

	return support
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(g.admin()...)

	users := admin.Group("admin-users", "/users")
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.POST("", h.User.Create)
	users.PUT("/:id", h.User.Update)
	users.PATCH("/:id/enable", h.User.Enable)
	users.PATCH("/:id/disable", h.User.Disable)
	users.DELETE("/:id", h.User.Delete)

	products := admin.Group("admin-products", "/products")
	products.GET("", h.Product.AdminList)
	products.GET("/:id", h.Product.AdminGet)
	products.POST("", h.Product.Create)
	products.PUT("/:id", h.Product.Update)
	products.PATCH("/:id/activate", h.Product.Activate)
	products.PATCH("/:id/deactivate", h.Product.Deactivate)
	products.DELETE("/:id", h.Product.Delete)

	categories := admin.Group("admin-categories", "/categories")
	categories.POST("", h.Category.Create)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	brands := admin.Group("admin-brands", "/brands")
	brands.POST("", h.Brand.Create)
	brands.PUT("/:id", h.Brand.Update)
	brands.DELETE("/:id", h.Brand.Delete)

	reviews := admin.Group("admin-reviews", "/reviews")
	reviews.GET("", h.Review.List)
	reviews.PATCH("/:id/approve", h.Review.Approve)
	reviews.PATCH("/:id/reject", h.Review.Reject)

	stock := admin.Group("admin-inventory", "/inventory")
	stock.GET("", h.Inventory.List)
	stock.GET("/:productId", h.Inventory.Get)
	stock.POST("/:productId/adjust", h.Inventory.Adjust)
	stock.PUT("/:productId/threshold", h.Inventory.SetThreshold)
	stock.GET("/:productId/movements", h.Inventory.Movements)

	discounts := admin.Group("admin-discounts", "/discounts")
	discounts.GET("", h.Promotion.List)
	discounts.GET("/:id", h.Promotion.Get)
	discounts.POST("", h.Promotion.Create)
	discounts.PUT("/:id", h.Promotion.Update)
	discounts.PATCH("/:id/activate", h.Promotion.Activate)
	discounts.PATCH("/:id/deactivate", h.Promotion.Deactivate)
	discounts.DELETE("/:id", h.Promotion.Delete)

	articles := admin.Group("admin-articles", "/articles")
	articles.GET("", h.Article.List)
	articles.GET("/:id", h.Article.Get)
	articles.POST("", h.Article.Create)
	articles.PUT("/:id", h.Article.Update)
	articles.DELETE("/:id", h.Article.Delete)

	banners := admin.Group("admin-banners", "/banners")
	banners.GET("", h.Banner.List)
	banners.GET("/:id", h.Banner.Get)
	banners.POST("", h.Banner.Create)
	banners.PUT("/:id", h.Banner.Update)
	banners.DELETE("/:id", h.Banner.Delete)

	tickets := admin.Group("admin-tickets", "/tickets")
	tickets.GET("", h.Ticket.List)
	tickets.POST("/:id/reply", h.Ticket.Reply)
	tickets.PATCH("/:id/status", h.Ticket.SetStatus)

	warranty := admin.Group("admin-warranty", "/warranty")
	warranty.GET("", h.Warranty.List)
	warranty.PATCH("/:id/approve", h.Warranty.Approve)
	warranty.PATCH("/:id/reject", h.Warranty.Reject)
	warranty.PATCH("/:id/resolve", h.Warranty.Resolve)

	analytics := admin.Group("admin-analytics", "/analytics")
	analytics.GET("/overview", h.Report.Overview)
	analytics.GET("/export", h.Report.Export)

	outbox := admin.Group("admin-outbox", "/outbox")
	outbox.GET("/dead", h.Outbox.GetDeadLetterEntries)
	outbox.GET("/stats", h.Outbox.GetStats)
	outbox.POST("/requeue", h.Outbox.RetryAllDeadEntries)
	outbox.POST("/:id/requeue", h.Outbox.RetryDeadEntry)

	return admin
}

func systemRoutes(h Handlers) *DomainGroup {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)
	return system
}

func uploadRoutes(h Handlers, g Guards) *DomainGroup {
	uploads := NewDomainGroup("uploads", "/uploads").Use(g.admin()...)
	uploads.POST("/images", h.Upload.UploadImage)
	uploads.DELETE("/images", h.Upload.DeleteImage)
	return uploads
}
