// Package ui implements the chess board front end using Ebitengine.
package ui

import (
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/tilechess/internal/board"
)

// pieceShapes holds the SVG body of each piece on a 45x45 canvas. {F} and
// {S} are replaced with the fill and stroke colors of the team.
var pieceShapes = map[board.PieceType]string{
	board.Pawn: `<circle cx="22.5" cy="14" r="6" {A}/>
<path d="M16 35 L29 35 L27 24 Q22.5 18 18 24 Z" {A}/>
<rect x="11" y="35" width="23" height="4" rx="1" {A}/>`,

	board.Rook: `<path d="M11 14 L11 8 L15 8 L15 11 L20 11 L20 8 L25 8 L25 11 L30 11 L30 8 L34 8 L34 14 Z" {A}/>
<rect x="14" y="14" width="17" height="17" {A}/>
<rect x="10" y="31" width="25" height="4" {A}/>
<rect x="8" y="35" width="29" height="4" {A}/>`,

	board.Knight: `<path d="M12 39 L34 39 L34 30 Q34 13 22 9 L20 5 L18 10 Q11 13 9 22 L11 26 L17 22 L20 24 Q13 30 12 39 Z" {A}/>
<circle cx="17" cy="15" r="1.6" fill="{S}" stroke="{S}"/>`,

	board.Bishop: `<circle cx="22.5" cy="6.5" r="2.5" {A}/>
<path d="M22.5 9 Q14 16 16 25 L29 25 Q31 16 22.5 9 Z" {A}/>
<rect x="17" y="25" width="11" height="6" {A}/>
<path d="M9 39 Q15 32 22.5 33 Q30 32 36 39 Z" {A}/>`,

	board.Queen: `<circle cx="8" cy="12" r="2.5" {A}/>
<circle cx="15" cy="9" r="2.5" {A}/>
<circle cx="22.5" cy="8" r="2.5" {A}/>
<circle cx="30" cy="9" r="2.5" {A}/>
<circle cx="37" cy="12" r="2.5" {A}/>
<path d="M9 27 L8 14 L15 24 L15 11 L22.5 24 L30 11 L30 24 L37 14 L36 27 Z" {A}/>
<path d="M9 27 L36 27 L34 34 L11 34 Z" {A}/>
<rect x="9" y="34" width="27" height="5" {A}/>`,

	board.King: `<rect x="21" y="3" width="3" height="11" {A}/>
<rect x="17.5" y="6.5" width="10" height="3" {A}/>
<path d="M22.5 25 Q17 12 11 17 Q6 22 12 29 L33 29 Q39 22 34 17 Q28 12 22.5 25 Z" {A}/>
<rect x="11" y="29" width="23" height="5" {A}/>
<rect x="9" y="34" width="27" height="5" {A}/>`,
}

var teamColors = map[board.Team][2]string{
	board.White: {"#ffffff", "#000000"},
	board.Black: {"#3a3a3a", "#000000"},
}

// pieceSVG returns the full SVG document for a piece.
func pieceSVG(p board.Piece) (string, bool) {
	body, ok := pieceShapes[p.Type]
	if !ok {
		return "", false
	}
	colors, ok := teamColors[p.Team]
	if !ok {
		return "", false
	}
	r := strings.NewReplacer(
		"{A}", `fill="{F}" stroke="{S}" stroke-width="1.5" stroke-linejoin="round"`,
	)
	body = r.Replace(body)
	body = strings.NewReplacer("{F}", colors[0], "{S}", colors[1]).Replace(body)
	return `<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">` + body + `</svg>`, true
}

type spriteKey struct {
	team board.Team
	typ  board.PieceType
}

// SpriteManager manages piece sprites.
type SpriteManager struct {
	pieces      map[spriteKey]*ebiten.Image
	size        int     // Display size (e.g., 80)
	renderScale float64 // Render at higher resolution for quality (e.g., 3.0)
}

// NewSpriteManager creates a new sprite manager with pieces of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[spriteKey]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	sm.loadPieces()
	return sm
}

// loadPieces rasterizes every piece from its SVG.
func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for _, team := range []board.Team{board.White, board.Black} {
		for typ := range pieceShapes {
			p := board.Piece{Team: team, Type: typ}
			doc, _ := pieceSVG(p)

			icon, err := oksvg.ReadIconStream(strings.NewReader(doc))
			if err != nil {
				log.Error().Err(err).Str("piece", p.String()).Msg("parse piece svg")
				continue
			}
			icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

			rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
			scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
			raster := rasterx.NewDasher(renderSize, renderSize, scanner)
			icon.Draw(raster, 1.0)

			sm.pieces[spriteKey{team, typ}] = ebiten.NewImageFromImage(rgba)
		}
	}
}

// Piece returns the sprite for a piece, or nil.
func (sm *SpriteManager) Piece(p board.Piece) *ebiten.Image {
	return sm.pieces[spriteKey{p.Team, p.Type}]
}

// DrawPieceAt draws a piece at the given pixel coordinates.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	sprite := sm.Piece(p)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := 1.0 / sm.renderScale
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
