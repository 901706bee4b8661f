package mines

import (
	"fmt"
	"math/rand/v2"
)

// GameState owns one board for the lifetime of a single game. It is not safe
// for concurrent use; callers serialize access.
type GameState struct {
	params   GameParams
	cells    []cell
	status   Status
	exploded int /* index of the mine that ended the game, or -1 */
	opened   int /* revealed safe cells */
	flags    int
}

// NewGame allocates a fresh board and scatters params.MineCount mines over
// it uniformly at random.
func NewGame(params GameParams, r *rand.Rand) (*GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newState(params, placeMines(params, r)), nil
}

// NewGameWithMines builds a board with mines at exactly the given points.
func NewGameWithMines(params GameParams, points []Point) (*GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	cells, err := layMines(params, points)
	if err != nil {
		return nil, err
	}
	return newState(params, cells), nil
}

func newState(params GameParams, cells []cell) *GameState {
	return &GameState{
		params:   params,
		cells:    cells,
		status:   InProgress,
		exploded: -1,
	}
}

func (s *GameState) Params() GameParams { return s.params }
func (s *GameState) Status() Status     { return s.status }

func (s *GameState) ValidatePoint(row, col int) bool {
	return s.params.ValidatePoint(row, col)
}

func (s *GameState) MinesRemaining() int {
	return s.params.MineCount - s.flags
}

func (s *GameState) Cell(row, col int) (Cell, error) {
	if !s.ValidatePoint(row, col) {
		return Cell{}, outOfBounds(row, col)
	}
	c := s.cells[s.params.index(row, col)]
	return Cell{
		IsMine:        c.mine,
		IsRevealed:    c.revealed,
		IsFlagged:     c.flagged,
		AdjacentMines: s.CountMinesAround(row, col),
	}, nil
}

// CountMinesAround returns 0 for points outside the board.
func (s *GameState) CountMinesAround(row, col int) int {
	if !s.ValidatePoint(row, col) {
		return 0
	}
	n := 0
	for _, p := range s.params.Neighbors(row, col) {
		if s.cells[s.params.index(p.Row, p.Col)].mine {
			n++
		}
	}
	return n
}

// Reveal opens the cell at (row, col). Revealing a flagged or already
// revealed cell, or any cell after the game is over, does nothing and
// returns no events.
func (s *GameState) Reveal(row, col int) ([]Event, error) {
	if !s.ValidatePoint(row, col) {
		return nil, outOfBounds(row, col)
	}
	i := s.params.index(row, col)
	if s.status != InProgress || s.cells[i].flagged || s.cells[i].revealed {
		return nil, nil
	}

	if s.cells[i].mine {
		return s.explode(i), nil
	}

	events := s.floodFill(i)

	if s.opened == s.params.Size()-s.params.MineCount {
		s.status = Won
		events = append(events, GameOver{Result: Won})
	}
	return events, nil
}

// floodFill reveals the safe cell i and, while it keeps finding cells with no
// mines around, their neighbours. A cell is marked revealed before it is
// queued so it is never queued twice.
func (s *GameState) floodFill(i int) []Event {
	var events []Event
	s.cells[i].revealed = true
	todo := []int{i}
	for len(todo) > 0 {
		j := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		p := s.params.point(j)
		v := s.CountMinesAround(p.Row, p.Col)
		s.opened++
		events = append(events, CellRevealed{
			Row: p.Row, Col: p.Col, Value: CellState(v),
		})
		if v != 0 {
			continue
		}
		for _, q := range s.params.Neighbors(p.Row, p.Col) {
			k := s.params.index(q.Row, q.Col)
			if s.cells[k].revealed || s.cells[k].flagged {
				continue
			}
			s.cells[k].revealed = true
			todo = append(todo, k)
		}
	}
	return events
}

// explode ends the game on mine i and exposes every other mine. Safe cells
// are left untouched.
func (s *GameState) explode(i int) []Event {
	s.status = Lost
	s.exploded = i
	s.cells[i].revealed = true

	p := s.params.point(i)
	events := []Event{CellRevealed{Row: p.Row, Col: p.Col, Value: ExplodedMine}}
	for j := range s.cells {
		if s.cells[j].mine && !s.cells[j].revealed {
			s.cells[j].revealed = true
			q := s.params.point(j)
			events = append(events, CellRevealed{
				Row: q.Row, Col: q.Col, Value: Mine,
			})
		}
	}
	return append(events, GameOver{Result: Lost})
}

// ToggleFlag flips the flag on an unrevealed cell while the game is running.
func (s *GameState) ToggleFlag(row, col int) ([]Event, error) {
	if !s.ValidatePoint(row, col) {
		return nil, outOfBounds(row, col)
	}
	i := s.params.index(row, col)
	if s.status != InProgress || s.cells[i].revealed {
		return nil, nil
	}
	c := &s.cells[i]
	c.flagged = !c.flagged
	if c.flagged {
		s.flags++
	} else {
		s.flags--
	}
	return []Event{CellFlagged{Row: row, Col: col, Flagged: c.flagged}}, nil
}

// PlayerGrid projects the board onto what the player may see. Mines stay
// hidden until they are revealed.
func (s *GameState) PlayerGrid() Grid {
	grid := make(Grid, len(s.cells))
	for i, c := range s.cells {
		switch {
		case c.revealed && i == s.exploded:
			grid[i] = ExplodedMine
		case c.revealed && c.mine:
			grid[i] = Mine
		case c.revealed:
			p := s.params.point(i)
			grid[i] = CellState(s.CountMinesAround(p.Row, p.Col))
		case c.flagged:
			grid[i] = Flagged
		default:
			grid[i] = Unknown
		}
	}
	return grid
}

func (s *GameState) String() string {
	return s.PlayerGrid().ToString(s.params.Cols)
}

func outOfBounds(row, col int) error {
	return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, row, col)
}
