package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/schema"
	"github.com/vancomm/minesweeper-web/internal/mines"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type NewGameDTO struct {
	Rows      int `schema:"rows,required"`
	Cols      int `schema:"cols,required"`
	MineCount int `schema:"mine_count,required"`
}

// ParseGameParams reads game params from the query. They may be given as a
// single "params=rows:cols:mines" value or as separate rows, cols and
// mine_count values. A query with none of them yields ok == false.
func ParseGameParams(src map[string][]string) (params mines.GameParams, ok bool, err error) {
	if v, found := src["params"]; found && len(v) > 0 {
		params, err = mines.ParseParams(v[0])
		return params, true, err
	}
	_, hasRows := src["rows"]
	_, hasCols := src["cols"]
	_, hasMines := src["mine_count"]
	if !hasRows && !hasCols && !hasMines {
		return mines.GameParams{}, false, nil
	}
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, true, err
	}
	return mines.GameParams(dto), true, nil
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src map[string][]string) (PositionDTO, error) {
	var p PositionDTO
	err := decoder.Decode(&p, src)
	return p, err
}

// GameSessionDTO is the player's view of a session. Grid is row-major; see
// [mines.CellState] for the meaning of each value.
type GameSessionDTO struct {
	GameSessionId  string       `json:"game_session_id"`
	Grid           mines.Grid   `json:"grid"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	MineCount      int          `json:"mine_count"`
	MinesRemaining int          `json:"mines_remaining"`
	Status         mines.Status `json:"status"`
	StartedAt      int64        `json:"started_at"`
}

func NewGameSessionDTO(
	gameSessionID int64,
	startedAt time.Time,
	g *mines.GameState,
) *GameSessionDTO {
	rows, cols, mineCount := g.Params().Unpack()
	return &GameSessionDTO{
		GameSessionId:  strconv.FormatInt(gameSessionID, 10),
		Grid:           g.PlayerGrid(),
		Rows:           rows,
		Cols:           cols,
		MineCount:      mineCount,
		MinesRemaining: g.MinesRemaining(),
		Status:         g.Status(),
		StartedAt:      startedAt.UnixMilli(),
	}
}

type NewGameResponseDTO struct {
	Token string          `json:"token"`
	Game  *GameSessionDTO `json:"game"`
}

type MoveResponseDTO struct {
	Events []any           `json:"events"`
	Game   *GameSessionDTO `json:"game"`
}

type cellRevealedDTO struct {
	Type     string `json:"type"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Value    any    `json:"value"`
	Exploded bool   `json:"exploded,omitempty"`
}

type cellFlaggedDTO struct {
	Type    string `json:"type"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Flagged bool   `json:"flagged"`
}

type gameOverDTO struct {
	Type   string       `json:"type"`
	Result mines.Status `json:"result"`
}

func NewEventDTO(e mines.Event) any {
	switch e := e.(type) {
	case mines.CellRevealed:
		dto := cellRevealedDTO{Type: "cell_revealed", Row: e.Row, Col: e.Col}
		if e.Value.IsMine() {
			dto.Value = "mine"
			dto.Exploded = e.Value == mines.ExplodedMine
		} else {
			dto.Value = int(e.Value)
		}
		return dto
	case mines.CellFlagged:
		return cellFlaggedDTO{
			Type: "cell_flagged", Row: e.Row, Col: e.Col, Flagged: e.Flagged,
		}
	case mines.GameOver:
		return gameOverDTO{Type: "game_over", Result: e.Result}
	default:
		panic(fmt.Sprintf("unknown event type %T", e))
	}
}

func NewEventDTOs(events []mines.Event) []any {
	dtos := make([]any, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, NewEventDTO(e))
	}
	return dtos
}
