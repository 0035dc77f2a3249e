package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/riky007-ux/stylemingle-sub000/internal/service"
)

// uploadTokenRequest is the body of POST /uploads/token.
type uploadTokenRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// IssueUploadToken authorizes one direct client upload for the authenticated
// user and returns the scoped token plus a presigned destination URL.
func IssueUploadToken(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req uploadTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid json body")
		}
		if req.Filename == "" || req.ContentType == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "filename and contentType are required")
		}

		res, err := svc.IssueToken(c.UserContext(), userIDFromCtx(c), req.Filename, req.ContentType)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadCallback handles the completion event posted by the storage service
// after a direct upload finishes. The route is unauthenticated: the signed
// token payload inside the event is the authorization.
func UploadCallback(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var event service.CompletionEvent
		if err := c.BodyParser(&event); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid json body")
		}

		ack, err := svc.CompleteUpload(c.UserContext(), &event)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ack)
	}
}
