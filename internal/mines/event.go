package mines

import "fmt"

type Status uint8

const (
	InProgress Status = iota
	Lost
	Won
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) Over() bool {
	return s == Lost || s == Won
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event is a state change the UI layer has to render. The concrete types are
// [CellRevealed], [CellFlagged] and [GameOver].
type Event interface {
	isEvent()
}

// CellRevealed carries either the adjacent mine count (0 to 8) or
// [Mine]/[ExplodedMine] in Value.
type CellRevealed struct {
	Row, Col int
	Value    CellState
}

type CellFlagged struct {
	Row, Col int
	Flagged  bool
}

type GameOver struct {
	Result Status
}

func (CellRevealed) isEvent() {}
func (CellFlagged) isEvent()  {}
func (GameOver) isEvent()     {}
