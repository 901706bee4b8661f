package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-web/internal/mines"
	"github.com/vancomm/minesweeper-web/internal/session"
)

// commandErrorDTO rejects a frame. Events lists whatever the frame changed
// before failing; it is empty when the frame was rejected up front.
type commandErrorDTO struct {
	Error  string `json:"error"`
	Line   string `json:"line"`
	Events []any  `json:"events"`
}

// ConnectWS upgrades to a WebSocket that accepts newline-separated commands
// (see commandNargs) and answers every text frame with one MoveResponseDTO.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Warn("unable to upgrade connection")
		return
	}
	defer c.Close()

	logger := g.logger.WithField("session_id", s.ID)
	logger.Debug("websocket connected")

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("websocket read failed")
			}
			break
		}
		if mt != websocket.TextMessage {
			logger.WithField("message_type", mt).Warn("unexpected websocket message type")
			break
		}

		res, line, err := g.runCommands(s, strings.TrimSpace(string(message)))
		if err != nil {
			logger.WithError(err).WithField("line", line).Debug("rejected websocket command")
			g.writeJSON(c, logger, commandErrorDTO{
				Error:  err.Error(),
				Line:   line,
				Events: res.Events,
			})
			_ = c.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "invalid command"),
				time.Now().Add(g.ws.WriteTimeout),
			)
			break
		}

		if !g.writeJSON(c, logger, res) {
			break
		}
	}

	logger.Debug("websocket disconnected")
}

type frameCommand struct {
	command
	line string
}

// parseFrame parses every line of text and checks coordinates against params,
// so a frame with a bad line is rejected before any of it runs.
func parseFrame(text string, params mines.GameParams) ([]frameCommand, string, error) {
	var cmds []frameCommand
	for _, line := range iterBySep(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			return nil, line, err
		}
		if commandNargs[cmd.name] == 2 && !params.ValidatePoint(cmd.row, cmd.col) {
			return nil, line, fmt.Errorf("%w: (%d, %d)", mines.ErrOutOfBounds, cmd.row, cmd.col)
		}
		cmds = append(cmds, frameCommand{command: cmd, line: line})
	}
	return cmds, "", nil
}

// runCommands applies every command in text until one ends the game. On error
// it returns the offending line; res still carries the events of the
// commands that ran before it.
func (g GameHandler) runCommands(s *session.Session, text string) (res *MoveResponseDTO, line string, err error) {
	events := make([]mines.Event, 0)
	defer func() {
		res = &MoveResponseDTO{Events: NewEventDTOs(events)}
		if err == nil {
			res.Game = snapshot(s)
		}
	}()

	var params mines.GameParams
	_ = s.Do(func(game *mines.GameState) error {
		params = game.Params()
		return nil
	})

	cmds, line, err := parseFrame(text, params)
	if err != nil {
		return nil, line, err
	}

	for _, cmd := range cmds {
		over, err := g.runCommand(s, cmd.command, &events)
		if err != nil {
			return nil, cmd.line, err
		}
		if over {
			break
		}
	}
	return nil, "", nil
}

func (g GameHandler) runCommand(s *session.Session, cmd command, events *[]mines.Event) (over bool, err error) {
	var move Move
	switch cmd.name {
	case "g":
		return false, nil
	case "n":
		return false, g.registry.Restart(s)
	case "o":
		move = Reveal
	case "f":
		move = Flag
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.name)
	}

	var evs []mines.Event
	err = s.Do(func(game *mines.GameState) (err error) {
		evs, err = applyMove(game, move, cmd.row, cmd.col)
		return err
	})
	if err != nil {
		return false, err
	}
	*events = append(*events, evs...)

	g.logMove(s.ID, move, cmd.row, cmd.col, evs)
	_, over = gameOver(evs)
	return over, nil
}

func (g GameHandler) writeJSON(c *websocket.Conn, logger logrus.FieldLogger, v any) bool {
	if err := c.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout)); err != nil {
		logger.WithError(err).Warn("unable to set write deadline")
		return false
	}
	if err := c.WriteJSON(v); err != nil {
		logger.WithError(err).Warn("websocket write failed")
		return false
	}
	return true
}
