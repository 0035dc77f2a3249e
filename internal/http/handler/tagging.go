package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/riky007-ux/stylemingle-sub000/internal/service"
)

// tagItemRequest is the optional body of POST /items/:id/tag.
type tagItemRequest struct {
	Force bool `json:"force"`
}

// tagBatchRequest is the body of POST /items/tag/batch.
type tagBatchRequest struct {
	ItemIDs []string `json:"itemIds"`
	Force   bool     `json:"force"`
}

// TagItem runs the vision model over one item and merges the result into its
// metadata. force (body field or query param) overwrites fields the user
// already set.
func TagItem(svc service.TaggingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req tagItemRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid json body")
			}
		}
		force := req.Force || c.QueryBool("force")

		item, err := svc.TagItem(c.UserContext(), userIDFromCtx(c), id, force)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(item)
	}
}

// TagBatch tags several items in one model call.
func TagBatch(svc service.TaggingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tagBatchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid json body")
		}

		res, err := svc.TagBatch(c.UserContext(), userIDFromCtx(c), req.ItemIDs, req.Force)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
