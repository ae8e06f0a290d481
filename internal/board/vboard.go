package board

// VBoard is a scratch copy of the piece array used to simulate a move and
// test king safety without touching the real board or its analysis.
type VBoard [NumTiles]Piece

// NewVBoard creates a VBoard from a Board.
func NewVBoard(b *Board) VBoard {
	return VBoard(b.squares)
}

// ApplyMove applies a move to the VBoard (no validation).
func (v *VBoard) ApplyMove(m Move) {
	p := v[m.From]
	target := v[m.To]

	// En passant capture removes the pawn that left the ghost
	if p.Type == Pawn && target.IsGhost() && target.Team != p.Team {
		v[ghostOwner(m.To, target.Team)] = NoPiece
	}

	v[m.To] = p
	v[m.From] = NoPiece

	if p.Type == King {
		if c, ok := castleFor(p.Team, m.From, m.To); ok {
			v[c.rookTo] = v[c.rook]
			v[c.rook] = NoPiece
		}
	}
}

// IsAttacked reports whether any piece of team by attacks tile t.
func (v *VBoard) IsAttacked(t Tile, by Team) bool {
	// Pawns of by attack t from the tiles a pawn of the other team would capture on
	for _, from := range pawnCaptures[by.Other()][t] {
		if p := v[from]; p.Type == Pawn && p.Team == by {
			return true
		}
	}
	for _, from := range knightTargets[t] {
		if p := v[from]; p.Type == Knight && p.Team == by {
			return true
		}
	}
	for _, from := range kingTargets[t] {
		if p := v[from]; p.Type == King && p.Team == by {
			return true
		}
	}
	for _, d := range orthogonal {
		if p := v.firstOnRay(t, d); p.Team == by && (p.Type == Rook || p.Type == Queen) {
			return true
		}
	}
	for _, d := range diagonal {
		if p := v.firstOnRay(t, d); p.Team == by && (p.Type == Bishop || p.Type == Queen) {
			return true
		}
	}
	return false
}

// firstOnRay returns the first real piece from t in direction d.
func (v *VBoard) firstOnRay(t Tile, d Direction) Piece {
	for _, to := range rays[t][d] {
		if v[to].IsReal() {
			return v[to]
		}
	}
	return NoPiece
}

// verifyKingSafety drops every destination of the side to move that would
// leave its own king attacked once the move is played out.
func (b *Board) verifyKingSafety(an *analysis, us Team) {
	king := an.kings[us]
	if king == NoTile {
		return
	}
	them := us.Other()
	for t := A8; t <= H1; t++ {
		p := b.squares[t]
		if !p.IsReal() || p.Team != us || len(an.moves[t]) == 0 {
			continue
		}
		from := t
		an.moves[t] = filterTiles(an.moves[t], func(to Tile) bool {
			v := NewVBoard(b)
			v.ApplyMove(Move{From: from, To: to})
			k := king
			if from == king {
				k = to
			}
			return !v.IsAttacked(k, them)
		})
	}
}
