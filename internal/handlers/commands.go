package handlers

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidNargs   = errors.New("invalid number of arguments")
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // get state
	"o": 2, // open row col
	"f": 2, // flag row col
	"n": 0, // new board, same params
}

type command struct {
	name     string
	row, col int
}

// iterBySep yields the pieces of s between occurrences of sep, including
// empty ones.
func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i++
		}
	}
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf(
			"%w: %q takes %d, got %d", ErrInvalidNargs, parts[0], nargs, len(parts)-1,
		)
	}
	c := command{name: parts[0]}
	if nargs == 2 {
		row, col, err := parseXY(parts[1:])
		if err != nil {
			return command{}, err
		}
		c.row, c.col = row, col
	}
	return c, nil
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}
