package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docreview/internal/model"
	"docreview/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; submission and review semantics live in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, subSvc service.SubmissionService, reviewSvc service.ReviewService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/documents", UploadDocument(subSvc))
	app.Get("/documents", ListDocuments(reviewSvc))
	app.Post("/documents/:id/approve", ApproveDocument(reviewSvc))
	app.Post("/documents/:id/deny", DenyDocument(reviewSvc))
	app.Post("/documents/:id/register", RetryRegister(subSvc))

	app.Get("/submissions/unregistered", ListUnregistered(subSvc))
}

// HealthCheck verifies journal database connectivity.
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

// LivenessProbe is a simple liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadDocument accepts a multipart upload (field name: file) and submits
// it: upload to the content store, then register with the ledger.
// @Summary Submit a document for review
// @Accept mpfd
// @Produce json
// @Param file formData file true "document content"
// @Success 201 {object} model.Document
// @Router /documents [post]
func UploadDocument(subSvc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		uploadedBy := c.FormValue("uploaded_by")

		doc, err := subSvc.Submit(c.UserContext(), f, fh.Filename, ct, fh.Size, uploadedBy)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// documentListResponse wraps the reconciled listing.
type documentListResponse struct {
	Data  []model.Document `json:"data"`
	Total int              `json:"total"`
}

// ListDocuments returns the reconciled listing: every stored document with
// its authoritative status, or status "unknown" where the read failed.
// @Summary List documents with authoritative status
// @Produce json
// @Success 200 {object} documentListResponse
// @Router /documents [get]
func ListDocuments(reviewSvc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := reviewSvc.ListWithStatus(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(documentListResponse{Data: docs, Total: len(docs)})
	}
}

// ApproveDocument applies an approval decision.
// @Summary Approve a document
// @Produce json
// @Param id path string true "content id"
// @Success 200 {object} model.Document
// @Router /documents/{id}/approve [post]
func ApproveDocument(reviewSvc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
		}
		doc, err := reviewSvc.Approve(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DenyDocument applies a denial decision.
// @Summary Deny a document
// @Produce json
// @Param id path string true "content id"
// @Success 200 {object} model.Document
// @Router /documents/{id}/deny [post]
func DenyDocument(reviewSvc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
		}
		doc, err := reviewSvc.Deny(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// RetryRegister re-attempts ledger registration for stored content whose
// original registration failed.
// @Summary Retry ledger registration
// @Param id path string true "content id"
// @Success 204
// @Router /documents/{id}/register [post]
func RetryRegister(subSvc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
		}
		if err := subSvc.RetryRegister(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListUnregistered lists journal rows for content the ledger never
// acknowledged.
// @Summary List stored-but-unregistered submissions
// @Produce json
// @Success 200 {array} model.Submission
// @Router /submissions/unregistered [get]
func ListUnregistered(subSvc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := subSvc.ListUnregistered(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}
