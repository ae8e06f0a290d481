package engine

import (
	"sync/atomic"

	"github.com/hailam/tilechess/internal/board"
)

// Search constants
const (
	Infinity  = 1 << 20
	MateScore = 999
	MaxPly    = 64
)

// Searcher runs a plain negamax over a private board. It is not safe for
// concurrent use; the board it owns must not be shared.
type Searcher struct {
	board    *board.Board
	stopFlag *atomic.Bool
	qDepth   int
	nodes    uint64
	ties     []board.Move
}

// NewSearcher creates a searcher over b. The search stops early once
// stopFlag is set.
func NewSearcher(b *board.Board, stopFlag *atomic.Bool, quiescenceDepth int) *Searcher {
	return &Searcher{
		board:    b,
		stopFlag: stopFlag,
		qDepth:   quiescenceDepth,
	}
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Ties returns the root moves that reached the best score in the last call
// to SearchDepth.
func (s *Searcher) Ties() []board.Move {
	return s.ties
}

// stopped reports whether cancellation was requested.
func (s *Searcher) stopped() bool {
	return s.stopFlag.Load()
}

// SearchDepth searches the root to the given depth and returns the best
// score. The tied best root moves are available from Ties.
func (s *Searcher) SearchDepth(depth int) int {
	s.ties = s.ties[:0]
	return s.search(1, depth)
}

// search is negamax: ply counts from 1 at the root and the horizon is
// reached once ply exceeds depth. A move whose subtree was interrupted by a
// stop is not scored.
func (s *Searcher) search(ply, depth int) int {
	s.nodes++
	b := s.board
	if b.IsGameOver() {
		return terminal(b, ply)
	}
	if ply > depth {
		return s.quiescence(ply, 0, -Infinity, Infinity)
	}

	best := -Infinity
	for _, m := range b.LegalMoves() {
		if s.stopped() {
			break
		}
		undo, err := b.Make(m)
		if err != nil {
			continue
		}
		score := -s.search(ply+1, depth)
		b.Unmake(undo)
		if s.stopped() {
			break
		}

		if ply == 1 {
			switch {
			case score > best:
				s.ties = append(s.ties[:0], m)
			case score == best:
				s.ties = append(s.ties, m)
			}
		}
		if score > best {
			best = score
		}
	}
	return best
}

// quiescence extends the horizon with captures only, inside a fail-hard
// (alpha, beta) window. The side to move may stand pat on the static
// evaluation, and at most qDepth captures deep are searched. Called with the
// full window it returns the exact capture-sequence score.
func (s *Searcher) quiescence(ply, qply, alpha, beta int) int {
	s.nodes++
	b := s.board
	if b.IsGameOver() {
		return clamp(terminal(b, ply), alpha, beta)
	}

	standPat := Evaluate(b)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if qply >= s.qDepth || ply >= MaxPly {
		return alpha
	}
	for _, m := range b.LegalMoves() {
		if s.stopped() {
			break
		}
		if !b.IsCapture(m) {
			continue
		}
		undo, err := b.Make(m)
		if err != nil {
			continue
		}
		score := -s.quiescence(ply+1, qply+1, -beta, -alpha)
		b.Unmake(undo)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
