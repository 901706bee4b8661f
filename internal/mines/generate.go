package mines

import (
	"fmt"
	"math/rand/v2"
)

// placeMines picks params.MineCount distinct cells with a partial
// Fisher-Yates shuffle over the flattened cell indices.
func placeMines(params GameParams, r *rand.Rand) []cell {
	n := params.Size()
	cells := make([]cell, n)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := range params.MineCount {
		j := i + r.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
		cells[perm[i]].mine = true
	}
	return cells
}

func layMines(params GameParams, points []Point) ([]cell, error) {
	if len(points) != params.MineCount {
		return nil, fmt.Errorf(
			"%w: got %d mine positions for mine_count = %d",
			ErrInvalidConfiguration, len(points), params.MineCount,
		)
	}
	cells := make([]cell, params.Size())
	for _, p := range points {
		if !params.ValidatePoint(p.Row, p.Col) {
			return nil, fmt.Errorf(
				"%w: mine at (%d, %d) is outside the board",
				ErrInvalidConfiguration, p.Row, p.Col,
			)
		}
		i := params.index(p.Row, p.Col)
		if cells[i].mine {
			return nil, fmt.Errorf(
				"%w: duplicate mine at (%d, %d)",
				ErrInvalidConfiguration, p.Row, p.Col,
			)
		}
		cells[i].mine = true
	}
	return cells, nil
}
