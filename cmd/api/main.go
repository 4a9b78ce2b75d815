package main

import (
	"context"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tiendalabs/tienda-api/docs"
	"github.com/tiendalabs/tienda-api/internal/category"
	"github.com/tiendalabs/tienda-api/internal/chatbot"
	"github.com/tiendalabs/tienda-api/internal/config"
	"github.com/tiendalabs/tienda-api/internal/customer"
	"github.com/tiendalabs/tienda-api/internal/db"
	"github.com/tiendalabs/tienda-api/internal/httpx"
	"github.com/tiendalabs/tienda-api/internal/inventory"
	"github.com/tiendalabs/tienda-api/internal/notify"
	"github.com/tiendalabs/tienda-api/internal/order"
	"github.com/tiendalabs/tienda-api/internal/product"
	"github.com/tiendalabs/tienda-api/internal/realtime"
	"github.com/tiendalabs/tienda-api/internal/storage"
)

// @title Tienda API
// @version 1.0
// @description Storefront and admin backend: catalog, customers, orders and chatbot.
// @BasePath /
func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[db] connect: %v", err)
	}
	defer pool.Close()

	products := product.NewPGRepo(pool)
	categories := category.NewPGRepo(pool)
	customers := customer.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)

	hub := realtime.NewHub()

	mailer, err := notify.NewMailer(ctx, cfg)
	if err != nil {
		log.Fatalf("[notify] mailer: %v", err)
	}
	var publisher notify.Publisher
	if pub, err := notify.NewAMQPPublisher(cfg.OrderEventsAMQPURL, cfg.OrderEventsQueue); err != nil {
		log.Fatalf("[notify] amqp: %v", err)
	} else if pub != nil {
		publisher = pub
		defer pub.Close()
	}
	notifier := notify.NewNotifier(hub, mailer, publisher, customers, cfg.AdminEmail)

	ledger := inventory.NewLedger()
	coordinator := order.NewCoordinator(pool, order.NewBuilder(ledger), notifier)

	var completer chatbot.Completer
	if cfg.GenAIAPIKey != "" {
		completer = chatbot.NewGenClient(cfg.GenAIAPIURL, cfg.GenAIAPIKey)
	}
	bot := chatbot.NewBot(products, categories, completer)

	images, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("[storage] %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("tiendasess", store))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/login", loginHandler(customers))
	r.POST("/auth/logout", logoutHandler())
	r.POST("/api/customers", registerCustomerHandler(customers))

	api := r.Group("/api")
	{
		api.GET("/products", listProductsHandler(products))
		api.GET("/products/:id", getProductHandler(products))
		api.GET("/categories", listCategoriesHandler(categories))
		api.POST("/orders", createOrderHandler(coordinator))
		api.POST("/chat", chatHandler(bot))
	}

	admin := r.Group("/api/admin")
	admin.Use(requireAuth())
	{
		admin.POST("/products", createProductHandler(products))
		admin.PUT("/products/:id", updateProductHandler(products))
		admin.DELETE("/products/:id", deleteProductHandler(products))
		admin.POST("/products/:id/images", uploadProductImageHandler(products, images))
		admin.POST("/products/:id/restock", restockProductHandler(ledger, pool))

		admin.POST("/categories", createCategoryHandler(categories))
		admin.PUT("/categories/:id", updateCategoryHandler(categories))
		admin.DELETE("/categories/:id", deleteCategoryHandler(categories))

		admin.GET("/customers", listCustomersHandler(customers))
		admin.GET("/customers/:id", getCustomerHandler(customers))
		admin.PUT("/customers/:id", updateCustomerHandler(customers))
		admin.DELETE("/customers/:id", deleteCustomerHandler(customers))

		admin.GET("/orders", listOrdersHandler(orders))
		admin.GET("/orders/:id", getOrderHandler(orders))
		admin.PUT("/orders/:id", updateOrderHandler(orders))
		admin.PUT("/orders/:id/status", updateOrderStatusHandler(orders))
		admin.DELETE("/orders/:id", deleteOrderHandler(orders))

		admin.GET("/events", streamEventsHandler(hub))
	}

	log.Printf("tienda-api listening on %s", cfg.APIAddr)
	log.Fatal(r.Run(cfg.APIAddr))
}
