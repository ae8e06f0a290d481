package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Promotions are counted once, as queen promotions.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		undo, err := b.Make(m)
		if err != nil {
			continue
		}
		nodes += b.Perft(depth - 1)
		b.Unmake(undo)
	}
	return nodes
}

// Divide returns the perft count below each root move.
func (b *Board) Divide(depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range b.LegalMoves() {
		undo, err := b.Make(m)
		if err != nil {
			continue
		}
		out[m] = b.Perft(depth - 1)
		b.Unmake(undo)
	}
	return out
}
