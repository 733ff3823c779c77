// Package http serves the game service over a JSON REST API.
package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	svc *service.Service
	log *zap.Logger
}

// Options tunes the app. A RateLimit of zero disables rate limiting.
type Options struct {
	RateLimit int // requests per second per client IP
	Logger    *zap.Logger
}

func NewHTTPHandler(svc *service.Service, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{svc: svc, log: log.Named("http")}
}

func NewFiberApp(svc *service.Service, opts Options) *fiber.App {
	h := NewHTTPHandler(svc, opts.Logger)

	app := fiber.New(fiber.Config{
		ErrorHandler:          h.errorHandler,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		DisableStartupMessage: true,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(h.requestLogger)
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	if opts.RateLimit > 0 {
		maxReq := opts.RateLimit
		api.Use(limiter.New(limiter.Config{
			Max:        maxReq,
			Expiration: 1 * time.Second,
			KeyGenerator: func(c *fiber.Ctx) string {
				// first hop of X-Forwarded-For, then the peer address
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
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Post("/games/:gameId/check", h.CheckMove)
	api.Get("/games/:gameId/legal/:square", h.LegalMoves)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/wait", h.WaitForChange)

	return app
}

// contentTypeValidator ensures POST requests with a body carry JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
		if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

func (h *HTTPHandler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

// errorHandler provides consistent error responses for errors returned by
// handlers and fiber itself
func (h *HTTPHandler) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		response := core.ErrorResponse{Error: fe.Message, Code: core.ErrInternalError}
		switch fe.Code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
		return c.Status(fe.Code).JSON(response)
	}

	status, response := mapError(err)
	if status == fiber.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(response)
}

// mapError translates service and game errors into a status and body
func mapError(err error) (int, core.ErrorResponse) {
	var moveErr *game.MoveError
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound, core.ErrorResponse{Error: "game not found", Code: core.ErrGameNotFound}
	case errors.Is(err, service.ErrInvalidPlacement):
		return fiber.StatusBadRequest, core.ErrorResponse{Error: "invalid placement", Code: core.ErrInvalidPlacement, Details: err.Error()}
	case errors.Is(err, service.ErrUnknownPlayer):
		return fiber.StatusForbidden, core.ErrorResponse{Error: "unknown player", Code: core.ErrInvalidRequest, Details: err.Error()}
	case errors.Is(err, service.ErrInvalidCount):
		return fiber.StatusBadRequest, core.ErrorResponse{Error: "invalid undo count", Code: core.ErrInvalidRequest, Details: err.Error()}
	case errors.Is(err, game.ErrNotYourTurn):
		return fiber.StatusConflict, core.ErrorResponse{Error: "not your turn", Code: core.ErrNotYourTurn}
	case errors.Is(err, game.ErrGameOver):
		return fiber.StatusConflict, core.ErrorResponse{Error: "game is over", Code: core.ErrGameOver}
	case errors.Is(err, game.ErrNothingToUndo):
		return fiber.StatusBadRequest, core.ErrorResponse{Error: "cannot undo moves", Code: core.ErrNothingToUndo, Details: err.Error()}
	case errors.As(err, &moveErr):
		return fiber.StatusBadRequest, core.ErrorResponse{Error: "invalid move", Code: core.ErrInvalidMove, Details: moveErr.Status.String()}
	default:
		return fiber.StatusInternalServerError, core.ErrorResponse{Error: "internal server error", Code: core.ErrInternalError}
	}
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(core.HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Unix(),
		Storage: h.svc.StorageHealth(),
	})
}
