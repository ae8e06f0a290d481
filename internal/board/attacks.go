package board

// Direction indexes the eight ray directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
)

// Offset is the tile delta of one step in each direction.
var Offset = [8]int{
	Up:        -8,
	Down:      8,
	Left:      -1,
	Right:     1,
	UpLeft:    -9,
	UpRight:   -7,
	DownLeft:  7,
	DownRight: 9,
}

var (
	orthogonal = []Direction{Up, Down, Left, Right}
	diagonal   = []Direction{UpLeft, UpRight, DownLeft, DownRight}
	allDirs    = []Direction{Up, Down, Left, Right, UpLeft, UpRight, DownLeft, DownRight}
)

// Edges holds, for one tile, the number of steps to the board edge in
// each direction.
type Edges [8]int

// Pre-computed geometry
var (
	edges         [NumTiles]Edges
	rays          [NumTiles][8][]Tile // tiles walked from a tile, nearest first
	knightTargets [NumTiles][]Tile
	kingTargets   [NumTiles][]Tile
	pawnCaptures  [3][NumTiles][]Tile // [Team][Tile] diagonal capture tiles
)

func init() {
	initEdges()
	initRays()
	initKnightTargets()
	initKingTargets()
	initPawnCaptures()
}

// EdgesOf returns the distances to the board edge for a tile.
func EdgesOf(t Tile) Edges {
	return edges[t]
}

// Ray returns the tiles from t towards the edge in direction d, nearest first.
func Ray(t Tile, d Direction) []Tile {
	return rays[t][d]
}

func initEdges() {
	for t := A8; t <= H1; t++ {
		up := t.Row()
		down := 7 - t.Row()
		left := t.File()
		right := 7 - t.File()
		edges[t] = Edges{
			Up:        up,
			Down:      down,
			Left:      left,
			Right:     right,
			UpLeft:    min(up, left),
			UpRight:   min(up, right),
			DownLeft:  min(down, left),
			DownRight: min(down, right),
		}
	}
}

func initRays() {
	for t := A8; t <= H1; t++ {
		for _, d := range allDirs {
			n := edges[t][d]
			ray := make([]Tile, 0, n)
			for step := 1; step <= n; step++ {
				ray = append(ray, t+Tile(step*Offset[d]))
			}
			rays[t][d] = ray
		}
	}
}

func initKnightTargets() {
	jumps := [8][2]int{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	for t := A8; t <= H1; t++ {
		for _, j := range jumps {
			row, file := t.Row()+j[0], t.File()+j[1]
			if row < 0 || row > 7 || file < 0 || file > 7 {
				continue
			}
			knightTargets[t] = append(knightTargets[t], Tile(row*8+file))
		}
	}
}

func initKingTargets() {
	for t := A8; t <= H1; t++ {
		for _, d := range allDirs {
			if edges[t][d] > 0 {
				kingTargets[t] = append(kingTargets[t], t+Tile(Offset[d]))
			}
		}
	}
}

func initPawnCaptures() {
	for t := A8; t <= H1; t++ {
		for _, d := range []Direction{UpLeft, UpRight} {
			if edges[t][d] > 0 {
				pawnCaptures[White][t] = append(pawnCaptures[White][t], t+Tile(Offset[d]))
			}
		}
		for _, d := range []Direction{DownLeft, DownRight} {
			if edges[t][d] > 0 {
				pawnCaptures[Black][t] = append(pawnCaptures[Black][t], t+Tile(Offset[d]))
			}
		}
	}
}

// pawnForward returns the push offset for a team's pawns.
func pawnForward(team Team) Tile {
	if team == White {
		return Tile(Offset[Up])
	}
	return Tile(Offset[Down])
}

// pawnHomeRow returns the starting row of a team's pawns.
func pawnHomeRow(team Team) int {
	if team == White {
		return 6
	}
	return 1
}

// promotionRow returns the row on which a team's pawns promote.
func promotionRow(team Team) int {
	if team == White {
		return 0
	}
	return 7
}

// ghostOwner returns the tile of the pawn that left a ghost on g.
func ghostOwner(g Tile, team Team) Tile {
	if team == White {
		return g - 8
	}
	return g + 8
}
