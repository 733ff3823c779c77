package http

import (
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateGame starts a game from the standard layout or a given placement
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := body[core.CreateGameRequest](c)
	if !ok {
		req = &core.CreateGameRequest{}
	}

	turn := core.ColorWhite
	if req.Turn != "" {
		parsed, err := core.ParseColor(req.Turn)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid turn",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
		turn = parsed
	}

	gameID := h.svc.GenerateGameID()
	if _, err := h.svc.CreateGame(gameID, req.Placement, turn); err != nil {
		return err
	}

	view, err := h.svc.View(gameID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(view))
}

// GetGame retrieves current game state
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	view, err := h.svc.View(c.Params("gameId"))
	if err != nil {
		return err
	}
	return c.JSON(buildGameResponse(view))
}

// MakeMove commits a move in coordinate notation
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	req, ok := body[core.MoveRequest](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	m, err := board.ParseMove(req.Move)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid move",
			Code:    core.ErrInvalidMove,
			Details: game.StatusInvalidCoordinate.String(),
		})
	}

	ply, view, err := h.svc.MakeMove(gameID, req.PlayerID, m)
	if err != nil {
		return err
	}

	response := buildGameResponse(view)
	response.LastMove = moveInfo(ply)

	return c.JSON(response)
}

// CheckMove reports whether a move is legal without playing it
func (h *HTTPHandler) CheckMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	req, ok := body[core.CheckRequest](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	status := game.StatusInvalidCoordinate
	if m, err := board.ParseMove(req.Move); err == nil {
		status, err = h.svc.CheckMove(gameID, m)
		if err != nil {
			return err
		}
	} else if _, err := h.svc.GetGame(gameID); err != nil {
		return err
	}

	return c.JSON(core.CheckResponse{
		Move:   req.Move,
		Legal:  status == game.StatusOK,
		Status: status.String(),
	})
}

// LegalMoves lists the legal moves of the piece on a square
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	square := c.Params("square")

	from, err := board.ParseSquare(square)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid square",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	moves, err := h.svc.LegalMoves(gameID, from)
	if err != nil {
		return err
	}

	response := core.LegalMovesResponse{Square: from.String(), Moves: make([]string, 0, len(moves))}
	for _, m := range moves {
		response.Moves = append(response.Moves, m.String())
	}
	return c.JSON(response)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	count := 1
	if req, ok := body[core.UndoRequest](c); ok {
		count = req.Count
	}

	_, view, err := h.svc.Undo(gameID, count)
	if err != nil {
		return err
	}
	return c.JSON(buildGameResponse(view))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.svc.DeleteGame(c.Params("gameId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	g, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return err
	}

	b := g.Board()
	return c.JSON(core.BoardResponse{
		Placement: b.Placement(),
		Board:     b.ToASCII(),
	})
}

// WaitForChange long-polls until the game moves past the client's known
// move count, then returns the game state
func (h *HTTPHandler) WaitForChange(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	known := c.QueryInt("moves", -1)
	if known < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "moves query parameter required",
			Code:    core.ErrInvalidRequest,
			Details: "moves must be a non-negative integer",
		})
	}

	start := time.Now()
	changed, err := h.svc.WaitForChange(c.Context(), gameID, known)
	if err != nil {
		return err
	}
	<-changed

	h.log.Debug("wait released",
		zap.String("game_id", gameID),
		zap.Int("known_moves", known),
		zap.Duration("waited", time.Since(start)),
	)

	view, err := h.svc.View(gameID)
	if err != nil {
		return err
	}
	return c.JSON(buildGameResponse(view))
}

func buildGameResponse(view service.GameView) core.GameResponse {
	snap := view.Snapshot
	return core.GameResponse{
		GameID:    view.ID,
		Placement: snap.Placement,
		Turn:      snap.Turn.String(),
		State:     snap.State.String(),
		InCheck:   snap.InCheck,
		Moves:     snap.Moves,
		Players:   view.Players,
	}
}

func moveInfo(ply game.Ply) *core.MoveInfo {
	info := &core.MoveInfo{
		Move:        ply.Move.String(),
		PlayerColor: ply.Mover.String(),
		Promoted:    ply.Promoted,
	}
	if !ply.Captured.IsEmpty() {
		info.Captured = string(ply.Captured.Letter())
	}
	return info
}
