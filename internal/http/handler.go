package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fenview/internal/board"
	"fenview/internal/core"
	"fenview/internal/display"
	"fenview/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const DefaultRateLimit = 10 // req/sec

// Config tunes the API app
type Config struct {
	DevMode   bool
	RateLimit int // requests per second per IP, 0 disables limiting
	Quiet     bool
}

// HTTPHandler routes API requests to the service
type HTTPHandler struct {
	svc *service.Service
}

func NewHTTPHandler(svc *service.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func NewFiberApp(svc *service.Service, cfg Config) *fiber.App {
	h := NewHTTPHandler(svc)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: cfg.Quiet,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	if !cfg.Quiet {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	if cfg.RateLimit > 0 {
		maxReq := cfg.RateLimit
		if cfg.DevMode {
			maxReq *= 2
		}
		api.Use(limiter.New(limiter.Config{
			Max:        maxReq,
			Expiration: 1 * time.Second,
			KeyGenerator: func(c *fiber.Ctx) string {
				if xff := c.Get("X-Forwarded-For"); xff != "" {
					if idx := strings.Index(xff, ","); idx != -1 {
						return strings.TrimSpace(xff[:idx])
					}
					return xff
				}
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
					Error:   "rate limit exceeded",
					Code:    core.ErrRateLimitExceeded,
					Details: fmt.Sprintf("%d requests per second allowed", maxReq),
				})
			},
		}))
	}

	api.Use(contentTypeValidator)

	// Token check runs before body validation on write routes
	requireToken := AuthRequired(svc.ValidateToken)

	api.Get("/themes", h.ListThemes)
	api.Get("/board", h.GetBoard)
	api.Post("/positions", requireToken, validationMiddleware, h.CreatePosition)
	api.Get("/positions", h.ListPositions)
	api.Get("/positions/:positionId", h.GetPosition)
	api.Get("/positions/:positionId/board", h.GetPositionBoard)
	api.Delete("/positions/:positionId", requireToken, h.DeletePosition)

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrPositionNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// writeServiceError maps service and decoder errors onto HTTP responses
func writeServiceError(c *fiber.Ctx, err error) error {
	var perr *board.ParseError
	switch {
	case errors.As(err, &perr):
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid FEN",
			Code:    core.ErrInvalidFEN,
			Details: perr.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "position not found",
			Code:  core.ErrPositionNotFound,
		})
	case errors.Is(err, service.ErrStorageDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(core.ErrorResponse{
			Error:   "storage disabled",
			Code:    core.ErrStorageDisabled,
			Details: "start the server with -storage-path to enable positions",
		})
	case errors.Is(err, service.ErrUnknownFormat), errors.Is(err, display.ErrUnknownTheme):
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error:   "internal server error",
			Code:    core.ErrInternalError,
			Details: err.Error(),
		})
	}
}

// Health check endpoint with component status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
		"cache":   h.svc.GetCacheHealth(),
	})
}

// ListThemes returns the available rendering palettes
func (h *HTTPHandler) ListThemes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"themes":  display.ThemeNames(),
		"default": string(display.DefaultTheme().Name),
	})
}

// GetBoard renders an arbitrary FEN given in the query string
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	var q core.BoardQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid query",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}
	if err := validate.Struct(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	return h.render(c, q.FEN, q.Format, q.Theme, q.Size)
}

// CreatePosition stores a named FEN
func (h *HTTPHandler) CreatePosition(c *fiber.Ctx) error {
	req, ok := c.Locals("validatedBody").(*core.CreatePositionRequest)
	if !ok || req == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	pos, err := h.svc.SavePosition(req.Name, req.FEN)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(positionResponse(pos))
}

// ListPositions returns stored positions, optionally filtered by ?name=
func (h *HTTPHandler) ListPositions(c *fiber.Ctx) error {
	positions, err := h.svc.ListPositions(c.Query("name"))
	if err != nil {
		return writeServiceError(c, err)
	}

	resp := core.PositionListResponse{
		Positions: make([]core.PositionResponse, 0, len(positions)),
	}
	for i := range positions {
		resp.Positions = append(resp.Positions, positionResponse(&positions[i]))
	}
	resp.Count = len(resp.Positions)

	return c.JSON(resp)
}

// GetPosition returns one stored position
func (h *HTTPHandler) GetPosition(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	pos, err := h.svc.GetPosition(positionID)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(positionResponse(pos))
}

// GetPositionBoard renders a stored position
func (h *HTTPHandler) GetPositionBoard(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	var q core.BoardQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid query",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	pos, err := h.svc.GetPosition(positionID)
	if err != nil {
		return writeServiceError(c, err)
	}

	// the FEN comes from storage, not the query
	q.FEN = pos.Placement
	if err := validate.Struct(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	return h.render(c, pos.Placement, q.Format, q.Theme, q.Size)
}

// DeletePosition removes a stored position
func (h *HTTPHandler) DeletePosition(c *fiber.Ctx) error {
	positionID := c.Params("positionId")
	if !isValidUUID(positionID) {
		return invalidPositionID(c)
	}

	if err := h.svc.DeletePosition(positionID); err != nil {
		return writeServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HTTPHandler) render(c *fiber.Ctx, fen, format, theme string, size int) error {
	out, err := h.svc.Render(service.RenderRequest{
		FEN:    fen,
		Format: service.Format(format),
		Theme:  theme,
		Size:   size,
	})
	if err != nil {
		return writeServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, out.ContentType)
	if out.Cached {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	return c.Send(out.Body)
}

func invalidPositionID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid position ID format",
		Code:    core.ErrInvalidRequest,
		Details: "position ID must be a valid UUID",
	})
}

func positionResponse(p *service.Position) core.PositionResponse {
	return core.PositionResponse{
		PositionID: p.PositionID,
		Name:       p.Name,
		FEN:        p.Placement,
		CreatedAt:  p.CreatedAt,
	}
}
