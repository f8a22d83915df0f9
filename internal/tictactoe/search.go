package tictactoe

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

// SearchResult is the outcome of a full search from one board.
type SearchResult struct {
	// Action is nil when the board is already terminal.
	Action *entity.Action `json:"action"`
	// Score is the minimax value of the board from X's point of view.
	Score int `json:"score"`
	// Nodes counts every board visited, the root included.
	Nodes int `json:"nodes"`
}

// ActionScore is the minimax value of playing Action from a given board.
type ActionScore struct {
	Action entity.Action `json:"action"`
	Score  int           `json:"score"`
	Nodes  int           `json:"nodes"`
}

// searcher carries the visit counter of a single search; it is never shared between calls.
type searcher struct {
	nodes int
}

// BestAction returns the optimal action for the side to move.
// The second value is false when the game is already over.
func BestAction(board entity.Board) (entity.Action, bool) {
	res := Search(board)
	if res.Action == nil {
		return entity.Action{}, false
	}

	return *res.Action, true
}

// Search runs minimax with alpha-beta pruning from board.
//
// Every top-level candidate is scored with a fresh (-inf, +inf) window, so the
// scores of siblings never influence each other's pruning. Ties go to the first
// candidate in LegalActions order.
func Search(board entity.Board) SearchResult {
	s := &searcher{nodes: 1}

	if IsTerminal(board) {
		return SearchResult{Score: Utility(board), Nodes: s.nodes}
	}

	maximizing := PlayerToMove(board) == entity.X

	var (
		best      entity.Action
		bestScore int
	)

	if maximizing {
		bestScore = negInf
	} else {
		bestScore = posInf
	}

	for _, action := range LegalActions(board) {
		s.nodes++
		child := mustResult(board, action)

		if maximizing {
			if score := s.minValue(child, negInf, posInf); score > bestScore {
				bestScore, best = score, action
			}
			continue
		}

		if score := s.maxValue(child, negInf, posInf); score < bestScore {
			bestScore, best = score, action
		}
	}

	return SearchResult{Action: &best, Score: bestScore, Nodes: s.nodes}
}

// MaxValue is the value of board with X to move, searched inside (alpha, beta).
func MaxValue(board entity.Board, alpha, beta int) int {
	s := &searcher{}
	return s.maxValue(board, alpha, beta)
}

// MinValue is the value of board with O to move, searched inside (alpha, beta).
func MinValue(board entity.Board, alpha, beta int) int {
	s := &searcher{}
	return s.minValue(board, alpha, beta)
}

// Analyze scores every legal action of board. Each action is searched in its own
// goroutine with its own copy of the board; results follow LegalActions order.
func Analyze(ctx context.Context, board entity.Board) ([]ActionScore, error) {
	if IsTerminal(board) {
		return []ActionScore{}, nil
	}

	actions := LegalActions(board)
	scores := make([]ActionScore, len(actions))
	maximizing := PlayerToMove(board) == entity.X

	g, ctx := errgroup.WithContext(ctx)
	for i, action := range actions {
		i, action := i, action
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("analyze %s: %w", action, err)
			}

			s := &searcher{nodes: 1}
			child := mustResult(board, action)

			var score int
			if maximizing {
				score = s.minValue(child, negInf, posInf)
			} else {
				score = s.maxValue(child, negInf, posInf)
			}

			scores[i] = ActionScore{Action: action, Score: score, Nodes: s.nodes}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scores, nil
}

func (that *searcher) maxValue(board entity.Board, alpha, beta int) int {
	if IsTerminal(board) {
		return Utility(board)
	}

	value := negInf
	for _, action := range LegalActions(board) {
		that.nodes++

		value = max(value, that.minValue(mustResult(board, action), alpha, beta))
		alpha = max(alpha, value)
		if beta <= alpha {
			break
		}
	}

	return value
}

func (that *searcher) minValue(board entity.Board, alpha, beta int) int {
	if IsTerminal(board) {
		return Utility(board)
	}

	value := posInf
	for _, action := range LegalActions(board) {
		that.nodes++

		value = min(value, that.maxValue(mustResult(board, action), alpha, beta))
		beta = min(beta, value)
		if beta <= alpha {
			break
		}
	}

	return value
}

// mustResult applies an action taken from LegalActions of the same board.
func mustResult(board entity.Board, action entity.Action) entity.Board {
	next, err := Result(board, action)
	if err != nil {
		panic(fmt.Errorf("search produced an illegal action: %w", err))
	}

	return next
}
