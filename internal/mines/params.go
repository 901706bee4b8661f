package mines

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultRows      = 10
	DefaultCols      = 10
	DefaultMineCount = 15
)

type GameParams struct {
	Rows, Cols, MineCount int
}

func DefaultParams() GameParams {
	return GameParams{
		Rows:      DefaultRows,
		Cols:      DefaultCols,
		MineCount: DefaultMineCount,
	}
}

func (p GameParams) Unpack() (rows int, cols int, mc int) {
	return p.Rows, p.Cols, p.MineCount
}

func (p GameParams) Size() int {
	return p.Rows * p.Cols
}

// Validate reports [ErrInvalidConfiguration] for non-positive dimensions or a
// mine count that leaves no safe cell.
func (p GameParams) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf(
			"%w: dimensions must be positive (rows = %d, cols = %d)",
			ErrInvalidConfiguration, p.Rows, p.Cols,
		)
	}
	if p.MineCount < 0 {
		return fmt.Errorf(
			"%w: mine count must not be negative (mine_count = %d)",
			ErrInvalidConfiguration, p.MineCount,
		)
	}
	if p.MineCount >= p.Size() {
		return fmt.Errorf(
			"%w: mine count must be less than %d (mine_count = %d)",
			ErrInvalidConfiguration, p.Size(), p.MineCount,
		)
	}
	return nil
}

func (p GameParams) ValidatePoint(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

func (p GameParams) index(row, col int) int {
	return row*p.Cols + col
}

func (p GameParams) point(i int) Point {
	return Point{Row: i / p.Cols, Col: i % p.Cols}
}

// String renders params in the compact "rows:cols:mines" form accepted by
// [ParseParams].
func (p GameParams) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

func ParseParams(s string) (GameParams, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return GameParams{}, fmt.Errorf(
			`invalid game params "%s": want rows:cols:mines`, s,
		)
	}
	var values [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return GameParams{}, fmt.Errorf(
				`invalid game params "%s": %w`, s, err,
			)
		}
		values[i] = v
	}
	return GameParams{Rows: values[0], Cols: values[1], MineCount: values[2]}, nil
}

// MarshalText implements [encoding.TextMarshaler] so params can be used
// directly in JSON config.
func (p GameParams) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *GameParams) UnmarshalText(text []byte) error {
	parsed, err := ParseParams(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
