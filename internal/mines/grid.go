package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is what the player is allowed to see of a single cell.
type CellState int8

const (
	Unknown      CellState = -2
	Flagged      CellState = -1
	Mine         CellState = 64
	ExplodedMine CellState = 65
	/*
	 * 0 to 8 mean the cell is revealed and carry the number of mines
	 * around it. Mine is a mine exposed when the game was lost;
	 * ExplodedMine is the one the player hit.
	 */
)

func (s CellState) IsMine() bool {
	return s == Mine || s == ExplodedMine
}

func (s CellState) Revealed() bool {
	return s.IsMine() || (0 <= s && s <= 8)
}

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged:
		return "F"
	case s == Mine:
		return "*"
	case s == ExplodedMine:
		return "X"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Grid []CellState

func (g Grid) ToString(cols int) string {
	var b strings.Builder
	for row := range len(g) / cols {
		for col := range cols {
			fmt.Fprint(&b, g[row*cols+col].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is a read-only copy of a single board cell.
type Cell struct {
	IsMine        bool
	IsRevealed    bool
	IsFlagged     bool
	AdjacentMines int
}

type cell struct {
	mine     bool
	revealed bool
	flagged  bool
}

var offsets = [8]Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the in-bounds Moore neighborhood of (row, col).
func (p GameParams) Neighbors(row, col int) []Point {
	points := make([]Point, 0, len(offsets))
	for _, d := range offsets {
		r, c := row+d.Row, col+d.Col
		if p.ValidatePoint(r, c) {
			points = append(points, Point{r, c})
		}
	}
	return points
}
