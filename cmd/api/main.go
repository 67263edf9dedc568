package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	_ "github.com/jhoicas/shop-api/docs"
	"github.com/jhoicas/shop-api/internal/application/auth"
	"github.com/jhoicas/shop-api/internal/application/cart"
	"github.com/jhoicas/shop-api/internal/application/catalog"
	"github.com/jhoicas/shop-api/internal/domain/repository"
	"github.com/jhoicas/shop-api/internal/infrastructure/events"
	"github.com/jhoicas/shop-api/internal/infrastructure/memory"
	"github.com/jhoicas/shop-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/shop-api/internal/interfaces/http"
	"github.com/jhoicas/shop-api/pkg/config"
	"github.com/jhoicas/shop-api/pkg/logger"
)

// storage agrupa los adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	products  repository.ProductRepository
	carts     repository.CartRepository
	cartItems repository.CartItemRepository
	identity  auth.TxRunner
	cartTx    cart.TxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	publisher, closePublisher := events.NewPublisher(cfg.Kafka, log)
	defer func() {
		if err := closePublisher(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador kafka")
		}
	}()

	authUC := auth.NewAuthUseCase(store.identity, store.users, store.profiles, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	catalogUC := catalog.NewCatalogUseCase(store.products, publisher, log)
	cartUC := cart.NewCartUseCase(store.cartTx, store.carts, store.cartItems, store.products, log)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Shop API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CatalogUC: catalogUC,
		CartUC:    cartUC,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			users:     s.Users(),
			profiles:  s.Profiles(),
			products:  s.Products(),
			carts:     s.Carts(),
			cartItems: s.CartItems(),
			identity:  s,
			cartTx:    s,
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	txRunner := postgres.NewTxRunner(pool)
	return &storage{
		users:     postgres.NewUserRepository(pool),
		profiles:  postgres.NewProfileRepository(pool),
		products:  postgres.NewProductRepository(pool),
		carts:     postgres.NewCartRepository(pool),
		cartItems: postgres.NewCartItemRepository(pool),
		identity:  txRunner,
		cartTx:    txRunner,
		close:     pool.Close,
	}, nil
}
