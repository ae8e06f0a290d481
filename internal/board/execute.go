package board

import "fmt"

// MovePiece validates and plays a move for the side to move. A rejected
// move returns an error and leaves the board unchanged. A pawn reaching
// the last rank pauses the turn until Promote is called.
func (b *Board) MovePiece(from, to Tile) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %d -> %d", ErrInvalidTile, from, to)
	}
	switch b.st.phase {
	case GameOver:
		return ErrGameOver
	case AwaitingPromotionChoice:
		return ErrPromotionPending
	}

	m := Move{From: from, To: to}
	us := b.st.turn
	p := b.squares[from]
	if !p.IsReal() {
		return moveError(m, us, ErrNoPiece)
	}
	if p.Team != us {
		return moveError(m, p.Team, ErrWrongTurn)
	}
	if target := b.squares[to]; target.IsReal() && target.Team == us {
		return moveError(m, us, ErrOwnPieceCapture)
	}
	if !containsTile(b.an.moves[from], to) {
		return moveError(m, us, b.rejection(p, from, to))
	}

	b.play(m, p)
	if b.st.phase == AwaitingPromotionChoice {
		return nil
	}
	b.completeTurn(us)
	return nil
}

// rejection classifies why a move is missing from the legal set.
func (b *Board) rejection(p Piece, from, to Tile) error {
	if !containsTile(b.an.raw[from], to) {
		return ErrNotInLegalSet
	}
	if p.Type == King && b.an.attacks[p.Team.Other()].Has(to) {
		return ErrKingIntoCheck
	}
	if b.an.inCheck[p.Team] {
		return ErrDoesNotEscapeCheck
	}
	return ErrKingIntoCheck
}

// play mutates the piece array for a validated move.
func (b *Board) play(m Move, p Piece) {
	us := p.Team
	target := b.squares[m.To]
	if p.Type == Pawn && target.IsGhost() && target.Team != us {
		b.squares[ghostOwner(m.To, target.Team)] = NoPiece
	}

	p.Moved = true
	b.squares[m.To] = p
	b.squares[m.From] = NoPiece

	switch p.Type {
	case King:
		if c, ok := castleFor(us, m.From, m.To); ok {
			rook := b.squares[c.rook]
			rook.Moved = true
			b.squares[c.rookTo] = rook
			b.squares[c.rook] = NoPiece
		}
	case Pawn:
		fwd := pawnForward(us)
		if m.To == m.From+2*fwd {
			b.squares[m.From+fwd] = Piece{Team: us, Type: EnPassantGhost}
		}
		if m.To.Row() == promotionRow(us) {
			b.st.promotion = m.To
			b.st.phase = AwaitingPromotionChoice
		}
	}

	if b.st.teamLast[us] == m.Reverse() {
		b.st.repetitions++
	} else {
		b.st.repetitions = 0
	}
	b.st.teamLast[us] = m
	b.st.lastMove = m
}

// Promote replaces the pawn awaiting promotion and completes the turn.
func (b *Board) Promote(pt PieceType) error {
	if b.st.phase != AwaitingPromotionChoice {
		return fmt.Errorf("%w: no promotion pending", ErrInvalidPromotion)
	}
	switch pt {
	case Queen, Rook, Bishop, Knight:
	default:
		return fmt.Errorf("%w: cannot promote to %s", ErrInvalidPromotion, pt)
	}

	t := b.st.promotion
	team := b.squares[t].Team
	b.squares[t] = Piece{Team: team, Type: pt, Moved: true}
	b.st.promotion = NoTile
	b.st.phase = AwaitingMove
	b.completeTurn(team)
	return nil
}

// completeTurn ends the mover's turn: stale ghosts are cleared, the side
// to move flips and all derived state is rebuilt.
func (b *Board) completeTurn(mover Team) {
	for t := A8; t <= H1; t++ {
		if g := b.squares[t]; g.IsGhost() && g.Team != mover {
			b.squares[t] = NoPiece
		}
	}
	b.st.turn = mover.Other()
	b.analyze()
	b.settle()
}
