package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// BoardSize is the side length of the grid.
const BoardSize = 3

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (that Mark) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseMark accepts "X", "O" and "" (empty cell), case-insensitive.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

func (that Mark) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("mark must be a string: %w", err)
	}

	mark, err := ParseMark(raw)
	if err != nil {
		return err
	}

	*that = mark

	return nil
}

// Board is a row-major 3x3 grid. It is an array, so assignment copies it.
type Board [BoardSize][BoardSize]Mark

// UnmarshalJSON accepts exactly BoardSize rows of BoardSize cells.
func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Mark
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	if len(rows) != BoardSize {
		return fmt.Errorf("%w: want %d rows, got %d", apperror.ErrInvalidBoard, BoardSize, len(rows))
	}

	var board Board
	for i, row := range rows {
		if len(row) != BoardSize {
			return fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidBoard, i, len(row), BoardSize)
		}
		copy(board[i][:], row)
	}

	*that = board

	return nil
}

// Count returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	var n int
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}

	return n
}

func (that Board) String() string {
	var sb strings.Builder
	for i, row := range that {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			if cell == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}

// Action addresses one cell of the board.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether both coordinates are within the grid.
func (that Action) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// UnmarshalJSON requires both coordinates to be present.
func (that *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Row *int `json:"row"`
		Col *int `json:"col"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Row == nil || raw.Col == nil {
		return fmt.Errorf("%w: row and col are required", apperror.ErrInvalidAction)
	}

	*that = Action{Row: *raw.Row, Col: *raw.Col}

	return nil
}

func (that Action) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Outcome is the state of the game derived from a board.
type Outcome uint8

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

func (that Outcome) String() string {
	switch that {
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

func (that Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Outcome) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("outcome must be a string: %w", err)
	}

	switch raw {
	case "x_wins":
		*that = XWins
	case "o_wins":
		*that = OWins
	case "draw":
		*that = Draw
	case "in_progress", "":
		*that = InProgress
	default:
		return fmt.Errorf("unknown outcome %q", raw)
	}

	return nil
}
