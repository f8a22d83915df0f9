package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// winLines lists every row, column and diagonal, in that order.
var winLines = [8][3]entity.Action{
	{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
	{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
	{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}},
	{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}},
}

// InitialState returns the empty board.
func InitialState() entity.Board {
	return entity.Board{}
}

// PlayerToMove derives the side to act from occupancy: X on an even count of marks, O otherwise.
func PlayerToMove(board entity.Board) entity.Mark {
	if (entity.BoardSize*entity.BoardSize-board.Count(entity.Empty))%2 == 0 {
		return entity.X
	}

	return entity.O
}

// LegalActions returns the empty cells in row-major order.
// The order is the search's tie-break order, so it must stay stable.
func LegalActions(board entity.Board) []entity.Action {
	actions := make([]entity.Action, 0, entity.BoardSize*entity.BoardSize)
	for i, row := range board {
		for j, cell := range row {
			if cell == entity.Empty {
				actions = append(actions, entity.Action{Row: i, Col: j})
			}
		}
	}

	return actions
}

// Result returns a copy of board with the side to move placed at action.
// The input board is left untouched.
func Result(board entity.Board, action entity.Action) (entity.Board, error) {
	if !action.InBounds() {
		return board, fmt.Errorf("%w: %s is outside the board", apperror.ErrInvalidAction, action)
	}

	if board[action.Row][action.Col] != entity.Empty {
		return board, fmt.Errorf("%w: cell %s is already occupied", apperror.ErrInvalidAction, action)
	}

	next := board
	next[action.Row][action.Col] = PlayerToMove(board)

	return next, nil
}

// Winner returns the mark owning the first complete line, or Empty if there is none.
func Winner(board entity.Board) entity.Mark {
	for _, line := range winLines {
		a := board[line[0].Row][line[0].Col]
		b := board[line[1].Row][line[1].Col]
		c := board[line[2].Row][line[2].Col]
		if a != entity.Empty && a == b && b == c {
			return a
		}
	}

	return entity.Empty
}

// IsTerminal reports whether the game is over by a win or a full board.
func IsTerminal(board entity.Board) bool {
	if Winner(board) != entity.Empty {
		return true
	}

	return board.Count(entity.Empty) == 0
}

// Utility scores a terminal board from X's point of view: +1, -1 or 0.
// It only looks at the winner, so a non-terminal board without a line scores 0.
func Utility(board entity.Board) int {
	switch Winner(board) {
	case entity.X:
		return 1
	case entity.O:
		return -1
	default:
		return 0
	}
}

// OutcomeOf classifies the board.
func OutcomeOf(board entity.Board) entity.Outcome {
	switch Winner(board) {
	case entity.X:
		return entity.XWins
	case entity.O:
		return entity.OWins
	}

	if board.Count(entity.Empty) == 0 {
		return entity.Draw
	}

	return entity.InProgress
}

// Validate checks that board is reachable by alternating play from the empty board.
func Validate(board entity.Board) error {
	xCount, oCount := board.Count(entity.X), board.Count(entity.O)
	if xCount+oCount+board.Count(entity.Empty) != entity.BoardSize*entity.BoardSize {
		return fmt.Errorf("%w: unknown cell value", apperror.ErrInvalidBoard)
	}

	if diff := xCount - oCount; diff != 0 && diff != 1 {
		return fmt.Errorf("%w: %d X marks against %d O marks", apperror.ErrInvalidBoard, xCount, oCount)
	}

	var xLine, oLine bool
	for _, line := range winLines {
		a := board[line[0].Row][line[0].Col]
		if a == entity.Empty || a != board[line[1].Row][line[1].Col] || a != board[line[2].Row][line[2].Col] {
			continue
		}
		if a == entity.X {
			xLine = true
		} else {
			oLine = true
		}
	}

	switch {
	case xLine && oLine:
		return fmt.Errorf("%w: both players have three in a row", apperror.ErrInvalidBoard)
	case xLine && xCount == oCount:
		return fmt.Errorf("%w: O moved after X had already won", apperror.ErrInvalidBoard)
	case oLine && xCount != oCount:
		return fmt.Errorf("%w: X moved after O had already won", apperror.ErrInvalidBoard)
	}

	return nil
}
