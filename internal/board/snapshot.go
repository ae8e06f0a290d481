package board

import "fmt"

// Snapshot is a complete, immutable record of a board. Restoring it
// reproduces the same pieces, turn state and move generation.
type Snapshot struct {
	Placement    string  // placement field with ghost characters
	Moved        TileSet // tiles whose piece has moved
	Turn         Team
	WhiteInCheck bool
	BlackInCheck bool
	KingXRay     TileSet // x-ray behind the checked king of the side to move
	LastMove     Move
	WhiteLast    Move
	BlackLast    Move
	Repetitions  int
	Promotion    Tile
	Phase        Phase
	Result       Result
	Winner       Team
}

// Snapshot captures the board.
func (b *Board) Snapshot() Snapshot {
	var moved TileSet
	for t := A8; t <= H1; t++ {
		if p := b.squares[t]; p.IsReal() && p.Moved {
			moved = moved.Add(t)
		}
	}
	return Snapshot{
		Placement:    b.Placement(),
		Moved:        moved,
		Turn:         b.st.turn,
		WhiteInCheck: b.an.inCheck[White],
		BlackInCheck: b.an.inCheck[Black],
		KingXRay:     b.an.kingXRay[b.st.turn],
		LastMove:     b.st.lastMove,
		WhiteLast:    b.st.teamLast[White],
		BlackLast:    b.st.teamLast[Black],
		Repetitions:  b.st.repetitions,
		Promotion:    b.st.promotion,
		Phase:        b.st.phase,
		Result:       b.st.result,
		Winner:       b.st.winner,
	}
}

// Restore replaces the board contents with a snapshot and rebuilds the
// derived state.
func (b *Board) Restore(s Snapshot) error {
	if s.Turn != White && s.Turn != Black {
		return fmt.Errorf("invalid snapshot turn: %s", s.Turn)
	}
	next := Board{}
	if err := next.setPlacement(s.Placement); err != nil {
		return err
	}
	for t := A8; t <= H1; t++ {
		if p := next.squares[t]; p.IsReal() {
			p.Moved = s.Moved.Has(t)
			next.squares[t] = p
		}
	}
	next.st = state{
		turn:        s.Turn,
		phase:       s.Phase,
		result:      s.Result,
		winner:      s.Winner,
		promotion:   s.Promotion,
		lastMove:    s.LastMove,
		teamLast:    [3]Move{NoMove, s.WhiteLast, s.BlackLast},
		repetitions: s.Repetitions,
	}
	next.analyze()
	*b = next
	return nil
}

// FromSnapshot creates a new board from a snapshot.
func FromSnapshot(s Snapshot) (*Board, error) {
	b := &Board{}
	if err := b.Restore(s); err != nil {
		return nil, err
	}
	return b, nil
}

// Clone returns an independent copy of the board. The analysis is shared
// because it is never modified after it is built.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// UndoRecord holds everything needed to take back a move made with Make.
type UndoRecord struct {
	squares [NumTiles]Piece
	st      state
	an      *analysis
}

// Make plays a legal move, promoting to a queen when a pawn reaches the
// last rank, and returns the record needed to take it back.
func (b *Board) Make(m Move) (UndoRecord, error) {
	undo := UndoRecord{squares: b.squares, st: b.st, an: b.an}
	if err := b.MovePiece(m.From, m.To); err != nil {
		return undo, err
	}
	if b.st.phase == AwaitingPromotionChoice {
		if err := b.Promote(Queen); err != nil {
			b.Unmake(undo)
			return undo, err
		}
	}
	return undo, nil
}

// Unmake restores the board to the state before the matching Make. The
// cached analysis is put back instead of being recomputed.
func (b *Board) Unmake(undo UndoRecord) {
	b.squares = undo.squares
	b.st = undo.st
	b.an = undo.an
}
