// Package engine implements the computer player: a plain negamax search
// with iterative deepening over a private board.
package engine

import (
	"github.com/hailam/tilechess/internal/board"
)

// Evaluate returns the material balance from the side to move's view.
func Evaluate(b *board.Board) int {
	score := b.Material(board.White) - b.Material(board.Black)
	if b.Turn() == board.Black {
		return -score
	}
	return score
}

// terminal scores a finished game from the side to move's view. Being
// mated sooner scores lower.
func terminal(b *board.Board, ply int) int {
	if b.Result() == board.Checkmate {
		return -(MateScore - ply)
	}
	return 0
}
