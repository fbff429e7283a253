package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docreview/internal/http/middleware"
	"docreview/internal/ledger"
	"docreview/internal/service"
	"docreview/internal/store"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
	// ContentID is set when an upload already produced an id before the
	// failure, so the caller can retry registration without re-uploading.
	ContentID string `json:"content_id,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// writeServiceError maps the error taxonomy of the store, ledger, and
// services onto HTTP responses. Transport-class failures are 502 so
// callers know a retry may help; rejections are definite 4xx.
func writeServiceError(c *fiber.Ctx, err error) error {
	var se *service.SubmissionError
	if errors.As(err, &se) {
		payload := errorPayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Stage:     string(se.Stage),
				ContentID: se.ContentID,
			},
		}
		status := fiber.StatusBadGateway
		switch {
		case errors.Is(err, store.ErrUploadRejected):
			status = fiber.StatusUnprocessableEntity
			payload.Error.Code = "UPLOAD_REJECTED"
			payload.Error.Message = "upload rejected by content policy"
		case se.Stage == service.StageRegister:
			payload.Error.Code = "REGISTER_FAILED"
			payload.Error.Message = "content stored but ledger registration failed"
		case se.Stage == service.StageJournal:
			payload.Error.Code = "JOURNAL_FAILED"
			payload.Error.Message = "content stored but journal update failed"
		default:
			payload.Error.Code = "UPLOAD_FAILED"
			payload.Error.Message = "upload to content store failed"
		}
		return c.Status(status).JSON(payload)
	}

	var re *ledger.RejectedError
	if errors.As(err, &re) {
		return writeError(c, fiber.StatusConflict, "ALREADY_DECIDED", re.Reason)
	}

	var te *ledger.TransportError
	switch {
	case errors.As(err, &te):
		return writeError(c, fiber.StatusBadGateway, "LEDGER_UNAVAILABLE", "ledger unreachable, outcome unknown")
	case errors.Is(err, service.ErrListingFailed):
		return writeError(c, fiber.StatusBadGateway, "LISTING_FAILED", "content store listing failed")
	case errors.Is(err, store.ErrStoreUnavailable):
		return writeError(c, fiber.StatusBadGateway, "STORE_UNAVAILABLE", "content store unavailable")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return writeError(c, fiber.StatusNotFound, "SUBMISSION_NOT_FOUND", "no journaled submission for this content id")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes
// error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
