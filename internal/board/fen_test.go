package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTileNames(t *testing.T) {
	tests := []struct {
		tile Tile
		name string
	}{
		{A8, "a8"},
		{H8, "h8"},
		{E4, "e4"},
		{A1, "a1"},
		{H1, "h1"},
	}
	for _, tc := range tests {
		if got := tc.tile.String(); got != tc.name {
			t.Errorf("Tile(%d).String() = %s, want %s", tc.tile, got, tc.name)
		}
		got, err := ParseTile(tc.name)
		if err != nil || got != tc.tile {
			t.Errorf("ParseTile(%s) = %d, %v, want %d", tc.name, got, err, tc.tile)
		}
	}
	for _, bad := range []string{"", "i1", "a9", "a0", "e44"} {
		if _, err := ParseTile(bad); !errors.Is(err, ErrInvalidTile) {
			t.Errorf("ParseTile(%q) error = %v, want %v", bad, err, ErrInvalidTile)
		}
	}
}

func TestEdges(t *testing.T) {
	if got, want := EdgesOf(A8), (Edges{Up: 0, Down: 7, Left: 0, Right: 7, UpLeft: 0, UpRight: 0, DownLeft: 0, DownRight: 7}); got != want {
		t.Errorf("EdgesOf(a8) = %v, want %v", got, want)
	}
	if got, want := EdgesOf(E4), (Edges{Up: 4, Down: 3, Left: 4, Right: 3, UpLeft: 4, UpRight: 3, DownLeft: 3, DownRight: 3}); got != want {
		t.Errorf("EdgesOf(e4) = %v, want %v", got, want)
	}
	if diff := cmp.Diff([]Tile{G2, F3, E4, D5, C6, B7, A8}, Ray(H1, UpLeft)); diff != "" {
		t.Errorf("Ray(h1, UpLeft) mismatch (-want +got):\n%s", diff)
	}
	if got := Ray(H4, Right); len(got) != 0 {
		t.Errorf("Ray(h4, Right) = %v, want empty", got)
	}
}

func TestFixedTargetsDoNotWrap(t *testing.T) {
	tests := []struct {
		name string
		got  []Tile
		want []Tile
	}{
		{"knight a8", knightTargets[A8], []Tile{B6, C7}},
		{"knight h1", knightTargets[H1], []Tile{G3, F2}},
		{"king a1", kingTargets[A1], []Tile{A2, B1, B2}},
		{"white pawn a2", pawnCaptures[White][A2], []Tile{B3}},
		{"black pawn h7", pawnCaptures[Black][H7], []Tile{G6}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(TileSetOf(tc.want...), TileSetOf(tc.got...)); diff != "" {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
	if n := len(knightTargets[D4]); n != 8 {
		t.Errorf("knight on d4 has %d targets, want 8", n)
	}
}

func TestLoadFEN(t *testing.T) {
	b := mustLoad(t, StartFEN)
	if b.Placement() != StartPlacement {
		t.Errorf("Placement() = %s, want %s", b.Placement(), StartPlacement)
	}
	if b.FEN() != StartFEN {
		t.Errorf("FEN() = %s, want %s", b.FEN(), StartFEN)
	}
	if diff := cmp.Diff(NewBoard().Snapshot(), b.Snapshot()); diff != "" {
		t.Errorf("LoadFEN(start) differs from NewBoard (-new +loaded):\n%s", diff)
	}

	for _, tc := range []struct{ tile Tile }{{E1}, {H1}, {A8}, {E2}} {
		if b.Piece(tc.tile).Moved {
			t.Errorf("%s should be unmoved", tc.tile)
		}
	}
}

func TestLoadFENFields(t *testing.T) {
	b := mustLoad(t, "r3k2r/8/8/8/4pP2/8/8/R3K2R b Kq f3 0 1")

	if b.Turn() != Black {
		t.Errorf("Turn = %s, want Black", b.Turn())
	}
	if !b.Piece(A1).Moved || b.Piece(H1).Moved {
		t.Errorf("White rooks: a1 moved=%v h1 moved=%v, want true false", b.Piece(A1).Moved, b.Piece(H1).Moved)
	}
	if !b.Piece(H8).Moved || b.Piece(A8).Moved {
		t.Errorf("Black rooks: a8 moved=%v h8 moved=%v, want false true", b.Piece(A8).Moved, b.Piece(H8).Moved)
	}
	if g := b.Piece(F3); !g.IsGhost() || g.Team != White {
		t.Errorf("Expected white ghost on f3, got %+v", g)
	}
	if b.Placement() != "r3k2r/8/8/8/4pP2/5E2/8/R3K2R" {
		t.Errorf("Placement() = %s", b.Placement())
	}
	if b.FEN() != "r3k2r/8/8/8/4pP2/8/8/R3K2R b Kq f3 0 1" {
		t.Errorf("FEN() = %s", b.FEN())
	}
	if !hasMove(b, "e4f3") {
		t.Error("Expected exf3 en passant")
	}
}

func TestLoadFENGhostPlacement(t *testing.T) {
	b := mustLoad(t, "rnbqkbnr/1pp1pppp/p2e4/3pP3/8/8/PPPP1PPP/RNBQKBNR w")
	if g := b.Piece(D6); !g.IsGhost() || g.Team != Black {
		t.Fatalf("Expected black ghost on d6, got %+v", g)
	}
	if !hasMove(b, "e5d6") {
		t.Error("Expected exd6 en passant from the ghost character")
	}
}

func TestLoadFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		StartPlacement + " x",
		StartPlacement + " w KQxq",
		StartPlacement + " w KQkq e5",
		StartPlacement + " w KQkq e3",
		// Ghost characters must sit behind a pawn of their own team
		"4k3/8/8/8/8/8/8/4K2e w",
		"4k3/8/8/8/8/E7/8/4K3 w",
		"4k3/8/E7/P7/8/8/8/4K3 b",
		"4k3/8/8/8/p7/E7/8/4K3 b",
	}
	for _, fen := range bad {
		if _, err := LoadFEN(fen); err == nil {
			t.Errorf("LoadFEN(%q) succeeded, want error", fen)
		}
	}
}

func TestRestoreRejectsStrayGhost(t *testing.T) {
	b := NewBoard()
	snap := b.Snapshot()
	snap.Placement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNe"
	if err := b.Restore(snap); err == nil {
		t.Fatal("Restore accepted a ghost on the back rank")
	}
	if b.Placement() != StartPlacement {
		t.Errorf("Failed restore changed the board: %s", b.Placement())
	}
	if _, err := FromSnapshot(snap); err == nil {
		t.Error("FromSnapshot accepted a ghost on the back rank")
	}
}
