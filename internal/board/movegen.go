package board

// generator fills the analysis with the moves and attacks of one piece.
type generator func(b *Board, an *analysis, from Tile, p Piece)

// generators dispatches move generation by piece type. Ghosts and empty
// tiles have no generator.
var generators = [numPieceTypes]generator{
	King:   genKing,
	Queen:  genQueen,
	Bishop: genBishop,
	Knight: genKnight,
	Rook:   genRook,
	Pawn:   genPawn,
}

func genQueen(b *Board, an *analysis, from Tile, p Piece) {
	b.slide(an, from, p, allDirs)
}

func genBishop(b *Board, an *analysis, from Tile, p Piece) {
	b.slide(an, from, p, diagonal)
}

func genRook(b *Board, an *analysis, from Tile, p Piece) {
	b.slide(an, from, p, orthogonal)
}

func genKnight(b *Board, an *analysis, from Tile, p Piece) {
	for _, to := range knightTargets[from] {
		b.step(an, from, p, to)
	}
}

// genKing adds the plain king steps. Castling is added by the analyzer
// once both attack sets are known.
func genKing(b *Board, an *analysis, from Tile, p Piece) {
	for _, to := range kingTargets[from] {
		b.step(an, from, p, to)
	}
}

// step handles a single fixed-offset destination.
func (b *Board) step(an *analysis, from Tile, p Piece, to Tile) {
	target := b.squares[to]
	if target.IsReal() && target.Team == p.Team {
		an.protect(p.Team, to)
		return
	}
	an.add(p.Team, from, to)
	if target.Type == King {
		an.check(target.Team, CheckingPiece{Tile: from, Type: p.Type, LineOfSight: []Tile{from}})
	}
}

// slide walks each ray until it is blocked.
func (b *Board) slide(an *analysis, from Tile, p Piece, dirs []Direction) {
	for _, d := range dirs {
		b.walkRay(an, from, p, rays[from][d])
	}
}

func (b *Board) walkRay(an *analysis, from Tile, p Piece, ray []Tile) {
	los := []Tile{from}
	for i, to := range ray {
		target := b.squares[to]
		if !target.IsReal() {
			an.add(p.Team, from, to)
			los = append(los, to)
			continue
		}
		if target.Team == p.Team {
			an.protect(p.Team, to)
			return
		}
		an.add(p.Team, from, to)
		if target.Type == King {
			an.check(target.Team, CheckingPiece{Tile: from, Type: p.Type, LineOfSight: los})
			for _, behind := range ray[i+1:] {
				an.kingXRay[target.Team] = an.kingXRay[target.Team].Add(behind)
				if b.squares[behind].IsReal() {
					break
				}
			}
			return
		}
		b.scanPin(an, target, append(los, to), ray[i+1:])
		return
	}
}

// scanPin continues a ray past an enemy piece. If the next piece on the ray
// is that piece's king, the blocker is registered as pinned.
func (b *Board) scanPin(an *analysis, blocker Piece, los []Tile, rest []Tile) {
	pinned := los[len(los)-1]
	for _, t := range rest {
		target := b.squares[t]
		if !target.IsReal() {
			los = append(los, t)
			continue
		}
		if target.Type == King && target.Team == blocker.Team {
			an.pins[blocker.Team] = append(an.pins[blocker.Team], PinnedPiece{Tile: pinned, LineOfSight: los})
		}
		return
	}
}

// genPawn generates pushes and diagonal captures. Only the diagonals count
// towards the attack set.
func genPawn(b *Board, an *analysis, from Tile, p Piece) {
	fwd := pawnForward(p.Team)
	if one := from + fwd; one.Valid() && !b.squares[one].IsReal() {
		an.move(from, one)
		if two := one + fwd; !p.Moved && two.Valid() && !b.squares[two].IsReal() {
			an.move(from, two)
		}
	}
	for _, to := range pawnCaptures[p.Team][from] {
		target := b.squares[to]
		if target.IsEmpty() || target.Team == p.Team {
			an.protect(p.Team, to)
			continue
		}
		an.add(p.Team, from, to)
		if target.Type == King {
			an.check(target.Team, CheckingPiece{Tile: from, Type: Pawn, LineOfSight: []Tile{from}})
		}
	}
}
