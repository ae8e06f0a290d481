package board

// CheckingPiece is a piece giving check. LineOfSight runs from the
// attacker (inclusive) up to, but not including, the king.
type CheckingPiece struct {
	Tile        Tile
	Type        PieceType
	LineOfSight []Tile
}

// PinnedPiece is a piece that may only move along LineOfSight, which runs
// from the pinning attacker through the pinned piece up to the king.
type PinnedPiece struct {
	Tile        Tile
	LineOfSight []Tile
}

// analysis is the state derived from the piece array. It is built only by
// Board.analyze and never modified afterwards, so undo records can share it.
type analysis struct {
	moves     [NumTiles][]Tile // destinations per tile, legal for the side to move
	raw       [NumTiles][]Tile // pseudo-legal destinations before filtering
	attacks   [3]TileSet       // tiles each team attacks or protects
	checkers  [3][]CheckingPiece
	pins      [3][]PinnedPiece
	kingXRay  [3]TileSet
	inCheck   [3]bool
	kings     [3]Tile
	moveCount int
}

func (an *analysis) add(team Team, from, to Tile) {
	an.moves[from] = append(an.moves[from], to)
	an.attacks[team] = an.attacks[team].Add(to)
}

func (an *analysis) move(from, to Tile) {
	an.moves[from] = append(an.moves[from], to)
}

func (an *analysis) protect(team Team, t Tile) {
	an.attacks[team] = an.attacks[team].Add(t)
}

func (an *analysis) check(king Team, c CheckingPiece) {
	an.checkers[king] = append(an.checkers[king], c)
}

// analyze rebuilds all derived state from the piece array and the side to
// move. It is the only place derived state is produced.
func (b *Board) analyze() {
	an := &analysis{kings: [3]Tile{NoTile, NoTile, NoTile}}
	for t := A8; t <= H1; t++ {
		p := b.squares[t]
		if !p.IsReal() {
			continue
		}
		if p.Type == King {
			an.kings[p.Team] = t
		}
		generators[p.Type](b, an, t, p)
	}
	for _, team := range []Team{White, Black} {
		if k := an.kings[team]; k != NoTile {
			an.inCheck[team] = an.attacks[team.Other()].Has(k)
		}
	}
	an.raw = an.moves

	us, them := b.st.turn, b.st.turn.Other()
	an.filterPins(us)
	an.filterKingMoves(us, them)
	b.addCastling(an, us, them)
	if an.inCheck[us] {
		b.restrictToCheckResponses(an, us)
	}
	b.verifyKingSafety(an, us)

	for t := A8; t <= H1; t++ {
		if p := b.squares[t]; p.IsReal() && p.Team == us {
			an.moveCount += len(an.moves[t])
		}
	}
	b.an = an
}

// filterPins keeps a pinned piece's destinations on its pin line.
func (an *analysis) filterPins(us Team) {
	for _, pin := range an.pins[us] {
		line := TileSetOf(pin.LineOfSight...)
		an.moves[pin.Tile] = filterTiles(an.moves[pin.Tile], line.Has)
	}
}

// filterKingMoves removes king destinations the opponent attacks.
func (an *analysis) filterKingMoves(us, them Team) {
	king := an.kings[us]
	if king == NoTile {
		return
	}
	attacked := an.attacks[them]
	an.moves[king] = filterTiles(an.moves[king], func(to Tile) bool {
		return !attacked.Has(to)
	})
}

// addCastling appends the castling destinations available to the side to move.
func (b *Board) addCastling(an *analysis, us, them Team) {
	attacked := an.attacks[them]
	for _, c := range castles[us] {
		king, rook := b.squares[c.king], b.squares[c.rook]
		if king.Type != King || king.Team != us || king.Moved || attacked.Has(c.king) {
			continue
		}
		if rook.Type != Rook || rook.Team != us || rook.Moved {
			continue
		}
		if !b.allEmpty(c.empty) || anyIn(attacked, c.safe) {
			continue
		}
		an.moves[c.king] = append(an.moves[c.king], c.kingTo)
	}
}

// restrictToCheckResponses replaces the side to move's destinations with
// the moves that answer a check. The king may not step onto the x-ray
// behind it. With a single checker other pieces may block or capture; a
// double check leaves only king moves.
func (b *Board) restrictToCheckResponses(an *analysis, us Team) {
	king := an.kings[us]
	xray := an.kingXRay[us]
	an.moves[king] = filterTiles(an.moves[king], func(to Tile) bool {
		return !xray.Has(to)
	})

	checkers := an.checkers[us]
	for t := A8; t <= H1; t++ {
		p := b.squares[t]
		if !p.IsReal() || p.Team != us || t == king {
			continue
		}
		if len(checkers) != 1 {
			an.moves[t] = nil
			continue
		}
		checker := checkers[0]
		line := TileSetOf(checker.LineOfSight...)
		an.moves[t] = filterTiles(an.moves[t], func(to Tile) bool {
			if line.Has(to) {
				return true
			}
			return p.Type == Pawn && checker.Type == Pawn && b.capturesGhostOf(us, to, checker.Tile)
		})
	}
}

// capturesGhostOf reports whether moving onto to takes the ghost left by
// the pawn on owner.
func (b *Board) capturesGhostOf(us Team, to, owner Tile) bool {
	g := b.squares[to]
	return g.IsGhost() && g.Team != us && ghostOwner(to, g.Team) == owner
}

// settle decides whether the game is over after the derived state changed.
func (b *Board) settle() {
	switch {
	case b.st.repetitions >= RepetitionLimit:
		b.finish(Repetition, NoTeam)
	case b.an.moveCount == 0 && b.an.inCheck[b.st.turn]:
		b.finish(Checkmate, b.st.turn.Other())
	case b.an.moveCount == 0:
		b.finish(Stalemate, NoTeam)
	default:
		b.st.phase = AwaitingMove
		b.st.result = Ongoing
		b.st.winner = NoTeam
	}
}

func (b *Board) finish(r Result, winner Team) {
	b.st.phase = GameOver
	b.st.result = r
	b.st.winner = winner
}

func (b *Board) allEmpty(tiles []Tile) bool {
	for _, t := range tiles {
		if b.squares[t].IsReal() {
			return false
		}
	}
	return true
}

func anyIn(s TileSet, tiles []Tile) bool {
	for _, t := range tiles {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// filterTiles returns the tiles accepted by keep. The input is returned
// unchanged when nothing is dropped; otherwise a new slice is allocated so
// the input stays intact.
func filterTiles(tiles []Tile, keep func(Tile) bool) []Tile {
	for i, t := range tiles {
		if keep(t) {
			continue
		}
		out := make([]Tile, i, len(tiles)-1)
		copy(out, tiles[:i])
		for _, rest := range tiles[i+1:] {
			if keep(rest) {
				out = append(out, rest)
			}
		}
		return out
	}
	return tiles
}
