package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"

	"campusmarket/internal/apperr"
	"campusmarket/internal/config"
	"campusmarket/internal/http/handlers"
	applog "campusmarket/internal/log"
	"campusmarket/internal/repos"
	"campusmarket/internal/services"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "campusmarket",
		Short:   "Campus marketplace API server",
		Version: version,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(config.Load())
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo accounts and listings (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := repos.OpenDB(cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repos.SeedDemoData(db, cfg.EmailDomain); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Println("[seed] demo data in place")
			return nil
		},
	}

	root.AddCommand(serveCmd, seedCmd)

	// Bare invocation serves, matching how the original `npm start` behaved.
	root.RunE = serveCmd.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cfg config.Config) error {
	// Optional file logging alongside stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{
		Users:       userRepo,
		Secret:      []byte(cfg.JWTSecret),
		TokenTTL:    cfg.JWTTTL,
		EmailDomain: cfg.EmailDomain,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Never leak internals to the client
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"code":    "INTERNAL",
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, authSvc)
	requireUser := handlers.RequireUser(authSvc)

	api := app.Group("/api/v1")

	// Auth (login/register throttled harder than the rest)
	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "message": "Too many attempts. Please try again later.",
			})
		},
	})
	api.Post("/auth/register", authLimiter, deps.AuthHandler.Register)
	api.Post("/auth/login", authLimiter, deps.AuthHandler.Login)
	api.Post("/auth/logout", deps.AuthHandler.Logout)
	api.Get("/auth/me", requireUser, deps.AuthHandler.Me)
	api.Put("/auth/profile", requireUser, deps.AuthHandler.UpdateProfile)

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/user/mine", requireUser, deps.ProductHandler.Mine)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Post("/products", requireUser, deps.ProductHandler.Create)
	api.Put("/products/:id", requireUser, deps.ProductHandler.Update)
	api.Delete("/products/:id", requireUser, deps.ProductHandler.Withdraw)
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/tags", deps.CategoryHandler.Tags)

	// Cart & Wishlist
	api.Get("/cart", requireUser, deps.CartHandler.View)
	api.Post("/cart", requireUser, deps.CartHandler.Add)
	api.Put("/cart", requireUser, deps.CartHandler.Update)
	api.Delete("/cart/:productId", requireUser, deps.CartHandler.Remove)
	api.Get("/wishlist", requireUser, deps.WishlistHandler.List)
	api.Post("/wishlist", requireUser, deps.WishlistHandler.Save)
	api.Delete("/wishlist/:productId", requireUser, deps.WishlistHandler.Unsave)

	// Checkout & Orders
	api.Post("/checkout", requireUser, deps.OrderHandler.PlaceOrder)
	api.Get("/orders", requireUser, deps.OrderHandler.History)
	api.Put("/orders/:id/status", requireUser, deps.OrderHandler.UpdateStatus)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			ae := apperr.Unavailable("STORE_DOWN", "database unreachable")
			applog.Error(c, "healthz", err, nil)
			return c.Status(ae.Kind.HTTPStatus()).JSON(fiber.Map{"ok": false, "code": ae.Code})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "code": "NOT_FOUND", "message": "Route not found",
		})
	})

	return app.Listen(":" + cfg.Port)
}
