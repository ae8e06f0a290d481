package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/game"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	AttackedColor  color.RGBA
	BestMoveColor  color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		LegalMoveColor: color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180}, // Red
		AttackedColor:  color.RGBA{220, 80, 60, 60},
		BestMoveColor:  color.RGBA{60, 140, 230, 200},
		Background:     color.RGBA{40, 44, 52, 255}, // Dark gray
		TextColor:      color.RGBA{220, 220, 220, 255},
	}
}

// boardGeometry maps tiles to screen coordinates. Tile a8 sits in the top
// left corner unless the board is flipped.
type boardGeometry struct {
	squareSize int
	flipped    bool
}

// TileToScreen returns the top-left pixel of a tile.
func (bg boardGeometry) TileToScreen(t board.Tile) (int, int) {
	row, file := t.Row(), t.File()
	if bg.flipped {
		row, file = 7-row, 7-file
	}
	return file * bg.squareSize, row * bg.squareSize
}

// ScreenToTile returns the tile under a pixel, or board.NoTile.
func (bg boardGeometry) ScreenToTile(x, y int) board.Tile {
	size := bg.squareSize * 8
	if x < 0 || x >= size || y < 0 || y >= size {
		return board.NoTile
	}
	row, file := y/bg.squareSize, x/bg.squareSize
	if bg.flipped {
		row, file = 7-row, 7-file
	}
	return board.Tile(row*8 + file)
}

// Renderer handles all board drawing.
type Renderer struct {
	sprites *SpriteManager
	theme   *Theme
	geom    boardGeometry
}

// NewRenderer creates a new renderer.
func NewRenderer(squareSize int) *Renderer {
	return &Renderer{
		sprites: NewSpriteManager(squareSize),
		theme:   DefaultTheme(),
		geom:    boardGeometry{squareSize: squareSize},
	}
}

// SetFlipped puts Black at the bottom when flipped is true.
func (r *Renderer) SetFlipped(flipped bool) {
	r.geom.flipped = flipped
}

// Flipped reports whether Black is at the bottom.
func (r *Renderer) Flipped() bool {
	return r.geom.flipped
}

// DrawBoard draws the squares and coordinate labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	size := float32(r.geom.squareSize)
	for t := board.A8; t <= board.H1; t++ {
		c := r.theme.LightSquare
		if (t.Row()+t.File())%2 == 1 {
			c = r.theme.DarkSquare
		}
		x, y := r.geom.TileToScreen(t)
		vector.DrawFilledRect(screen, float32(x), float32(y), size, size, c, false)
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels the files along the bottom edge and the ranks
// along the left edge.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := coordinateFace()
	if face == nil {
		return
	}
	bottom, left := board.A1, board.A8
	if r.geom.flipped {
		bottom, left = board.A8, board.H8
	}
	for i := 0; i < 8; i++ {
		fileTile := board.NewTile(i, bottom.Rank())
		x, y := r.geom.TileToScreen(fileTile)
		label := string(rune('a' + fileTile.File()))
		r.drawLabel(screen, face, label, fileTile, float64(x+r.geom.squareSize-10), float64(y+r.geom.squareSize-15))

		rankTile := board.NewTile(left.File(), i+1)
		x, y = r.geom.TileToScreen(rankTile)
		r.drawLabel(screen, face, string(rune('0'+rankTile.Rank())), rankTile, float64(x+3), float64(y+2))
	}
}

func (r *Renderer) drawLabel(screen *ebiten.Image, face *text.GoTextFace, s string, t board.Tile, x, y float64) {
	c := r.theme.DarkSquare
	if (t.Row()+t.File())%2 == 1 {
		c = r.theme.LightSquare
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// DrawHighlights draws the game highlights plus the current selection.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, h game.Highlights, selected board.Tile, targets []board.Tile, showAttacked bool) {
	if showAttacked {
		for _, t := range h.Attacked.Tiles() {
			r.highlightTile(screen, t, r.theme.AttackedColor)
		}
	}
	if h.LastMove.IsValid() {
		r.highlightTile(screen, h.LastMove.From, r.theme.LastMoveColor)
		r.highlightTile(screen, h.LastMove.To, r.theme.LastMoveColor)
	}
	if h.Check != board.NoTile {
		r.highlightTile(screen, h.Check, r.theme.CheckColor)
	}
	if selected != board.NoTile {
		r.highlightTile(screen, selected, r.theme.SelectedSquare)
	}
	for _, t := range targets {
		r.drawLegalMoveIndicator(screen, t)
	}
}

// highlightTile draws a colored overlay on a tile.
func (r *Renderer) highlightTile(screen *ebiten.Image, t board.Tile, c color.RGBA) {
	if !t.Valid() {
		return
	}
	x, y := r.geom.TileToScreen(t)
	size := float32(r.geom.squareSize)
	vector.DrawFilledRect(screen, float32(x), float32(y), size, size, c, false)
}

// drawLegalMoveIndicator draws a circle on a legal destination.
func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, t board.Tile) {
	cx, cy := r.tileCenter(t)
	radius := float32(r.geom.squareSize) * 0.15
	vector.DrawFilledCircle(screen, cx, cy, radius, r.theme.LegalMoveColor, false)
}

// DrawBestMove draws an arrow from the start to the end tile of a hint.
func (r *Renderer) DrawBestMove(screen *ebiten.Image, m board.Move) {
	if !m.IsValid() {
		return
	}
	x0, y0 := r.tileCenter(m.From)
	x1, y1 := r.tileCenter(m.To)
	width := float32(r.geom.squareSize) * 0.12
	vector.StrokeLine(screen, x0, y0, x1, y1, width, r.theme.BestMoveColor, true)

	// Arrow head
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	head := float64(r.geom.squareSize) * 0.3
	for _, side := range []float64{-0.5, 0.5} {
		hx := x1 - float32(head*math.Cos(angle+side))
		hy := y1 - float32(head*math.Sin(angle+side))
		vector.StrokeLine(screen, x1, y1, hx, hy, width, r.theme.BestMoveColor, true)
	}
}

func (r *Renderer) tileCenter(t board.Tile) (float32, float32) {
	x, y := r.geom.TileToScreen(t)
	half := float32(r.geom.squareSize) / 2
	return float32(x) + half, float32(y) + half
}

// DrawPieces draws every piece except the one being dragged.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pieceAt func(board.Tile) board.Piece, dragTile board.Tile, anims *AnimationManager) {
	for t := board.A8; t <= board.H1; t++ {
		if t == dragTile {
			continue
		}
		p := pieceAt(t)
		if !p.IsReal() {
			continue
		}
		x, y := r.geom.TileToScreen(t)
		if anims != nil {
			dx, dy := anims.ShakeOffset(t)
			x += int(dx)
			y += int(dy)
		}
		r.sprites.DrawPieceAt(screen, p, x, y)
	}
}

// DrawDraggedPiece draws the piece being dragged centered on the cursor.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, p board.Piece, mouseX, mouseY int) {
	if !p.IsReal() {
		return
	}
	half := r.geom.squareSize / 2
	r.sprites.DrawPieceAt(screen, p, mouseX-half, mouseY-half)
}

// DrawPromotionPicker shades the board and draws the promotion choices.
func (r *Renderer) DrawPromotionPicker(screen *ebiten.Image, promo board.Tile, team board.Team) {
	boardPx := float32(r.geom.squareSize * 8)
	vector.DrawFilledRect(screen, 0, 0, boardPx, boardPx, color.RGBA{0, 0, 0, 120}, false)
	for i, t := range pickerTiles(promo) {
		r.highlightTile(screen, t, r.theme.LightSquare)
		x, y := r.geom.TileToScreen(t)
		r.sprites.DrawPieceAt(screen, board.Piece{Team: team, Type: promotionChoices[i]}, x, y)
	}
}

// ScreenToTile converts screen coordinates to a tile.
func (r *Renderer) ScreenToTile(x, y int) board.Tile {
	return r.geom.ScreenToTile(x, y)
}

// TileToScreen converts a tile to screen coordinates.
func (r *Renderer) TileToScreen(t board.Tile) (int, int) {
	return r.geom.TileToScreen(t)
}

// SquareSize returns the size of one tile in pixels.
func (r *Renderer) SquareSize() int {
	return r.geom.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
