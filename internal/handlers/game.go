package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-web/internal/config"
	"github.com/vancomm/minesweeper-web/internal/middleware"
	"github.com/vancomm/minesweeper-web/internal/mines"
	"github.com/vancomm/minesweeper-web/internal/session"
)

type GameHandler struct {
	logger   logrus.FieldLogger
	registry *session.Registry
	tokens   *session.Tokens
	cookies  *config.Cookies
	ws       *config.WebSocket
	games    config.GameConfig
}

func NewGameHandler(
	logger logrus.FieldLogger,
	registry *session.Registry,
	tokens *session.Tokens,
	cookies *config.Cookies,
	ws *config.WebSocket,
	games config.GameConfig,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		registry: registry,
		tokens:   tokens,
		cookies:  cookies,
		ws:       ws,
		games:    games,
	}
}

type Move uint8

const (
	Reveal Move = iota
	Flag
)

func (m Move) String() string {
	switch m {
	case Reveal:
		return "reveal"
	case Flag:
		return "flag"
	}
	return "unknown"
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, ok, err := ParseGameParams(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if !ok {
		params = g.games.Default
	}

	if err := params.Validate(); err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if !g.games.Permits(params) {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %s", ErrParamsNotAllowed, params))
		return
	}

	s, err := g.registry.Create(params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to create game session")
		return
	}

	token, err := g.tokens.Sign(s.ID)
	if err != nil {
		g.registry.Delete(s.ID)
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to sign game token")
		return
	}
	g.cookies.Refresh(w, token, g.tokens.Lifetime())

	sendJSONStatusOrLog(w, g.logger, http.StatusCreated,
		NewGameResponseDTO{Token: token, Game: snapshot(s)})
}

// lookup resolves the {id} path value to a session the caller holds a token
// for. On failure it has already written the response.
func (g GameHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest,
			fmt.Errorf("invalid game session id: %q", r.PathValue("id")))
		return nil, false
	}

	claims, ok := middleware.SessionClaims(r.Context())
	if !ok || claims.SessionID != id {
		sendErrorOrLog(w, g.logger, http.StatusUnauthorized, ErrUnauthorized)
		return nil, false
	}

	s, err := g.registry.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, ErrNotFound)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to fetch game session")
		return nil, false
	}
	return s, true
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	sendJSONOrLog(w, g.logger, snapshot(s))
}

func snapshot(s *session.Session) *GameSessionDTO {
	var dto *GameSessionDTO
	_ = s.Do(func(game *mines.GameState) error {
		dto = NewGameSessionDTO(s.ID, s.StartedAt(), game)
		return nil
	})
	return dto
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, Reveal)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, Flag)
}

func (g GameHandler) move(w http.ResponseWriter, r *http.Request, move Move) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	var (
		res    MoveResponseDTO
		events []mines.Event
	)
	err = s.Do(func(game *mines.GameState) (err error) {
		events, err = applyMove(game, move, pos.Row, pos.Col)
		if err != nil {
			return err
		}
		res.Events = NewEventDTOs(events)
		res.Game = NewGameSessionDTO(s.ID, s.StartedAt(), game)
		return nil
	})
	if errors.Is(err, mines.ErrOutOfBounds) {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to apply move")
		return
	}

	g.logMove(s.ID, move, pos.Row, pos.Col, events)
	sendJSONOrLog(w, g.logger, res)
}

func applyMove(game *mines.GameState, move Move, row, col int) ([]mines.Event, error) {
	switch move {
	case Reveal:
		return game.Reveal(row, col)
	case Flag:
		return game.ToggleFlag(row, col)
	}
	return nil, fmt.Errorf("unknown move %d", move)
}

func (g GameHandler) logMove(id int64, move Move, row, col int, events []mines.Event) {
	logger := g.logger.WithFields(logrus.Fields{
		"session_id": id,
		"move":       move.String(),
		"row":        row,
		"col":        col,
		"events":     len(events),
	})
	if over, ok := gameOver(events); ok {
		logger.WithField("result", over.Result.String()).Info("game over")
		return
	}
	logger.Debug("move applied")
}

// gameOver finds the event that ended the game, if the move ended it.
func gameOver(events []mines.Event) (mines.GameOver, bool) {
	for _, e := range events {
		if over, ok := e.(mines.GameOver); ok {
			return over, true
		}
	}
	return mines.GameOver{}, false
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	if err := g.registry.Restart(s); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to restart game session")
		return
	}

	sendJSONOrLog(w, g.logger, snapshot(s))
}

func (g GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	g.registry.Delete(s.ID)
	g.cookies.Clear(w)
	g.logger.WithField("session_id", s.ID).Debug("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (g GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.logger, map[string]any{
		"status":   "ok",
		"sessions": g.registry.Count(),
	})
}
