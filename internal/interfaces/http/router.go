package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/shop-api/internal/application/auth"
	"github.com/jhoicas/shop-api/internal/application/cart"
	"github.com/jhoicas/shop-api/internal/application/catalog"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CatalogUC *catalog.CatalogUseCase
	CartUC    *cart.CartUseCase
	Log       *logger.Logger
}

// NewApp crea la app Fiber con recover, request id, log de peticiones y errores en JSON.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return writeError(c, log, err)
		},
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	// Auth (público)
	authGroup := app.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Products: listado público; alta y stock solo owner
	products := app.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC, log)
	requireOwner := RequireProfile(deps.AuthUC, entity.RoleOwner, log)
	products.Get("/", productHandler.List)
	products.Post("/add", requireOwner, productHandler.Create)
	products.Post("/:id/reduce-stock", requireOwner, productHandler.ReduceStock)

	// Cart: ver carrito con cualquier rol; modificarlo solo customer
	carts := app.Group("/cart")
	cartHandler := NewCartHandler(deps.CartUC, log)
	requireCustomer := RequireProfile(deps.AuthUC, entity.RoleCustomer, log)
	carts.Get("/", RequireProfile(deps.AuthUC, "", log), cartHandler.Get)
	carts.Post("/add", requireCustomer, cartHandler.Add)
	carts.Delete("/items/:id", requireCustomer, cartHandler.RemoveItem)
}
