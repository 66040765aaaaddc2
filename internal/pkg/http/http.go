package http

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func SetupHttpEngine() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "rental-service",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())

	return app
}

// StartHttpServer blocks until the process receives SIGINT or SIGTERM.
func StartHttpServer(app *fiber.App, port string) {
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("error start http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("error shutdown http server: %v", err)
	}
}
