package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"sqids"
	"sqids/internal/domain"
	"sqids/internal/service"
	"sqids/internal/validation"
)

var (
	errInvalidBody       = map[string]string{"error": "invalid request body"}
	errNumbersRequired   = map[string]string{"error": "numbers is required"}
	errItemsRequired     = map[string]string{"error": "items is required"}
	errIDRequired        = map[string]string{"error": "id is required"}
	errIDNotFound        = map[string]string{"error": "id not found"}
	errIDTooLong         = map[string]string{"error": "id exceeds maximum length"}
	errTooManyNumbers    = map[string]string{"error": "too many numbers"}
	errInvalidNumber     = map[string]string{"error": "invalid number"}
	errOutOfRange        = map[string]string{"error": "number out of range"}
	errBatchTooLarge     = map[string]string{"error": "batch size exceeds maximum"}
	errExhausted         = map[string]string{"error": "failed to generate a non-blocked id"}
	errEncodeFailed      = map[string]string{"error": "failed to encode numbers"}
	errEncodeBatchFailed = map[string]string{"error": "failed to encode batch"}
	errDecodeFailed      = map[string]string{"error": "failed to decode id"}
	respHealthOK         = map[string]string{"status": "ok"}
)

type Handler struct {
	idService IDService
	validator Validator
	describer Describer
	logger    *slog.Logger
	recorder  BusinessRecorder
}

func New(
	idService IDService,
	validator Validator,
	describer Describer,
	logger *slog.Logger,
	recorder BusinessRecorder,
) *Handler {
	return &Handler{
		idService: idService,
		validator: validator,
		describer: describer,
		logger:    logger,
		recorder:  recorder,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/health", h.Health)
	api.GET("/info", h.Info)
	api.POST("/encode", h.Encode)
	api.POST("/encode/batch", h.EncodeBatch)
	api.GET("/decode/:id", h.Decode)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, respHealthOK)
}

func (h *Handler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.InfoResponse{
		AlphabetSize:  h.describer.AlphabetSize(),
		MinLength:     h.describer.MinLength(),
		BlocklistSize: h.describer.BlocklistSize(),
		MinValue:      h.describer.MinValue(),
		MaxValue:      h.describer.MaxValue(),
	})
}

func (h *Handler) Encode(c echo.Context) error {
	var req domain.EncodeRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, errInvalidBody)
	}

	numbers, err := h.validator.ParseNumbers(req.Numbers)
	if err != nil {
		return h.handleValidationError(c, err)
	}

	resp, err := h.idService.Encode(c.Request().Context(), numbers)
	if err != nil {
		return h.handleEncodeError(c, err, errEncodeFailed)
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) EncodeBatch(c echo.Context) error {
	var req domain.EncodeBatchRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, errInvalidBody)
	}

	items, err := h.validator.ParseBatch(req.Items)
	if err != nil {
		return h.handleValidationError(c, err)
	}

	responses, err := h.idService.EncodeBatch(c.Request().Context(), items)
	if err != nil {
		return h.handleEncodeError(c, err, errEncodeBatchFailed)
	}

	return c.JSON(http.StatusCreated, domain.EncodeBatchResponse{IDs: responses})
}

func (h *Handler) Decode(c echo.Context) error {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		return h.handleValidationError(c, err)
	}

	resp, err := h.idService.Decode(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrIDNotFound) {
			return c.JSON(http.StatusNotFound, errIDNotFound)
		}
		h.logger.Error("failed to decode id", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errDecodeFailed)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleEncodeError(c echo.Context, err error, fallback map[string]string) error {
	if errors.Is(err, sqids.ErrBlocklistExhausted) {
		h.logger.Warn("blocklist exhausted", slog.String("error", err.Error()))
		h.recorder.RecordBusiness("blocklist_exhausted", 1, map[string]string{
			"client_ip": c.RealIP(),
		})
		return c.JSON(http.StatusUnprocessableEntity, errExhausted)
	}
	h.logger.Error("failed to encode", slog.String("error", err.Error()))
	return c.JSON(http.StatusInternalServerError, fallback)
}

func (h *Handler) handleValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, validation.ErrEmptyNumbers):
		return c.JSON(http.StatusBadRequest, errNumbersRequired)
	case errors.Is(err, validation.ErrTooManyNumbers):
		return c.JSON(http.StatusBadRequest, errTooManyNumbers)
	case errors.Is(err, sqids.ErrOutOfRange):
		return c.JSON(http.StatusBadRequest, errOutOfRange)
	case errors.Is(err, validation.ErrInvalidNumber):
		return c.JSON(http.StatusBadRequest, errInvalidNumber)
	case errors.Is(err, validation.ErrEmptyBatch):
		return c.JSON(http.StatusBadRequest, errItemsRequired)
	case errors.Is(err, validation.ErrBatchTooLarge):
		return c.JSON(http.StatusBadRequest, errBatchTooLarge)
	case errors.Is(err, validation.ErrEmptyID):
		return c.JSON(http.StatusBadRequest, errIDRequired)
	case errors.Is(err, validation.ErrIDTooLong):
		return c.JSON(http.StatusBadRequest, errIDTooLong)
	default:
		var batchErr *validation.BatchValidationError
		if errors.As(err, &batchErr) {
			return c.JSON(http.StatusBadRequest, h.formatBatchErrors(batchErr))
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "validation failed"})
	}
}

func (h *Handler) formatBatchErrors(err *validation.BatchValidationError) map[string]any {
	errs := make([]map[string]any, len(err.Errors))
	for i, e := range err.Errors {
		errs[i] = map[string]any{
			"index": e.Index,
			"error": e.Err.Error(),
		}
	}
	return map[string]any{"errors": errs}
}
