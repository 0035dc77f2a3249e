package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/riky007-ux/stylemingle-sub000/internal/auth"
	"github.com/riky007-ux/stylemingle-sub000/internal/http/middleware"
	"github.com/riky007-ux/stylemingle-sub000/internal/service"
)

// HealthCheck reports readiness: the database must answer a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness check with no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	verifier auth.Verifier,
	uploadSvc service.UploadService,
	itemSvc service.ItemService,
	tagSvc service.TaggingService,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// The completion callback is posted by the storage service without a user
	// session; the signed token payload inside the event is the authorization.
	app.Post("/uploads/callback", UploadCallback(uploadSvc))

	authed := app.Group("", middleware.Auth(verifier))

	authed.Post("/uploads/token", IssueUploadToken(uploadSvc))

	authed.Post("/items", CreateItem(itemSvc))
	authed.Get("/items", ListItems(itemSvc))
	authed.Post("/items/tag/batch", TagBatch(tagSvc))
	authed.Get("/items/:id", GetItem(itemSvc))
	authed.Patch("/items/:id", UpdateItem(itemSvc))
	authed.Delete("/items/:id", DeleteItem(itemSvc))
	authed.Post("/items/:id/tag", TagItem(tagSvc))
}
