package ui

import (
	"errors"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/tilechess/internal/board"
	"github.com/hailam/tilechess/internal/game"
)

// ToastType represents the type of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastSuccess
)

// Toast represents a notification message.
type Toast struct {
	Message   string
	Type      ToastType
	StartTime time.Time
	Duration  time.Duration
}

// ToastManager manages toast notifications.
type ToastManager struct {
	toasts   []*Toast
	maxStack int
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{maxStack: 3}
}

// Show displays a new toast notification.
func (tm *ToastManager) Show(message string, toastType ToastType, duration time.Duration) {
	tm.toasts = append(tm.toasts, &Toast{
		Message:   message,
		Type:      toastType,
		StartTime: time.Now(),
		Duration:  duration,
	})
	if len(tm.toasts) > tm.maxStack {
		tm.toasts = tm.toasts[1:]
	}
}

// Update removes expired toasts.
func (tm *ToastManager) Update() {
	now := time.Now()
	active := tm.toasts[:0]
	for _, t := range tm.toasts {
		if now.Sub(t.StartTime) < t.Duration {
			active = append(active, t)
		}
	}
	tm.toasts = active
}

// Draw renders all active toasts centered over the board.
func (tm *ToastManager) Draw(screen *ebiten.Image) {
	face := bodyFace()
	if face == nil {
		return
	}

	y := 50.0
	for _, t := range tm.toasts {
		elapsed := time.Since(t.StartTime).Seconds()
		duration := t.Duration.Seconds()

		alpha := 1.0
		fadeTime := 0.2
		if elapsed < fadeTime {
			alpha = elapsed / fadeTime
		} else if elapsed > duration-fadeTime {
			alpha = (duration - elapsed) / fadeTime
		}

		var bgColor, textColor color.RGBA
		switch t.Type {
		case ToastWarning:
			bgColor = color.RGBA{180, 140, 20, uint8(220 * alpha)}
			textColor = color.RGBA{40, 30, 0, uint8(255 * alpha)}
		case ToastSuccess:
			bgColor = color.RGBA{50, 150, 50, uint8(220 * alpha)}
			textColor = color.RGBA{255, 255, 255, uint8(255 * alpha)}
		default:
			bgColor = color.RGBA{50, 100, 150, uint8(220 * alpha)}
			textColor = color.RGBA{255, 255, 255, uint8(255 * alpha)}
		}

		w, h := measure(t.Message, face)
		padding := 12.0
		boxW := w + padding*2
		boxH := h + padding*2
		x := float64(BoardSize)/2 - boxW/2

		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), bgColor, false)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+padding, y+padding)
		op.ColorScale.ScaleWithColor(textColor)
		text.Draw(screen, t.Message, face, op)

		y += boxH + 8
	}
}

// ShakeAnimation represents a piece shake effect.
type ShakeAnimation struct {
	Tile      board.Tile
	StartTime time.Time
	Duration  time.Duration
	Intensity float64
}

// FlashAnimation represents a tile flash effect.
type FlashAnimation struct {
	Tile      board.Tile
	StartTime time.Time
	Duration  time.Duration
	Color     color.RGBA
}

// AnimationManager manages visual animations.
type AnimationManager struct {
	shakes  []*ShakeAnimation
	flashes []*FlashAnimation
}

// NewAnimationManager creates a new animation manager.
func NewAnimationManager() *AnimationManager {
	return &AnimationManager{}
}

// StartShake begins a shake animation on a tile.
func (am *AnimationManager) StartShake(t board.Tile) {
	am.shakes = append(am.shakes, &ShakeAnimation{
		Tile:      t,
		StartTime: time.Now(),
		Duration:  300 * time.Millisecond,
		Intensity: 8.0,
	})
}

// StartFlash begins a flash animation on a tile.
func (am *AnimationManager) StartFlash(t board.Tile, c color.RGBA) {
	am.flashes = append(am.flashes, &FlashAnimation{
		Tile:      t,
		StartTime: time.Now(),
		Duration:  400 * time.Millisecond,
		Color:     c,
	})
}

// Update removes expired animations.
func (am *AnimationManager) Update() {
	now := time.Now()

	shakes := am.shakes[:0]
	for _, s := range am.shakes {
		if now.Sub(s.StartTime) < s.Duration {
			shakes = append(shakes, s)
		}
	}
	am.shakes = shakes

	flashes := am.flashes[:0]
	for _, f := range am.flashes {
		if now.Sub(f.StartTime) < f.Duration {
			flashes = append(flashes, f)
		}
	}
	am.flashes = flashes
}

// ShakeOffset returns the current shake offset for a tile.
func (am *AnimationManager) ShakeOffset(t board.Tile) (float64, float64) {
	for _, s := range am.shakes {
		if s.Tile != t {
			continue
		}
		progress := time.Since(s.StartTime).Seconds() / s.Duration.Seconds()
		if progress >= 1.0 {
			return 0, 0
		}
		// Damped sine wave
		amplitude := s.Intensity * math.Exp(-5*progress)
		return amplitude * math.Sin(40*progress), 0
	}
	return 0, 0
}

// DrawFlashes renders all active flash overlays.
func (am *AnimationManager) DrawFlashes(screen *ebiten.Image, r *Renderer) {
	size := float32(r.SquareSize())
	for _, f := range am.flashes {
		progress := time.Since(f.StartTime).Seconds() / f.Duration.Seconds()
		if progress >= 1.0 {
			continue
		}
		alpha := 1.0 - progress
		c := color.RGBA{f.Color.R, f.Color.G, f.Color.B, uint8(float64(f.Color.A) * alpha)}
		x, y := r.TileToScreen(f.Tile)
		vector.DrawFilledRect(screen, float32(x), float32(y), size, size, c, false)
	}
}

// rejectionMessage turns a move error into a short message for the player.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrComputerTurn):
		return "Not your turn"
	case errors.Is(err, board.ErrWrongTurn):
		return "Not your piece"
	case errors.Is(err, board.ErrOwnPieceCapture):
		return "Square occupied by your piece"
	case errors.Is(err, board.ErrKingIntoCheck):
		return "Illegal move - King would be in check"
	case errors.Is(err, board.ErrDoesNotEscapeCheck):
		return "You must get out of check"
	case errors.Is(err, board.ErrNotInLegalSet):
		return "Invalid move for this piece"
	case errors.Is(err, board.ErrPromotionPending):
		return "Choose a promotion piece first"
	case errors.Is(err, board.ErrGameOver):
		return "The game is over"
	default:
		return "Invalid move"
	}
}

// FeedbackManager coordinates toasts and animations.
type FeedbackManager struct {
	toasts     *ToastManager
	animations *AnimationManager
}

// NewFeedbackManager creates a new feedback manager.
func NewFeedbackManager() *FeedbackManager {
	return &FeedbackManager{
		toasts:     NewToastManager(),
		animations: NewAnimationManager(),
	}
}

// Update updates all feedback systems.
func (fm *FeedbackManager) Update() {
	fm.toasts.Update()
	fm.animations.Update()
}

// Draw renders all feedback overlays.
func (fm *FeedbackManager) Draw(screen *ebiten.Image, r *Renderer) {
	fm.animations.DrawFlashes(screen, r)
	fm.toasts.Draw(screen)
}

// Animations returns the animation manager for renderer integration.
func (fm *FeedbackManager) Animations() *AnimationManager {
	return fm.animations
}

// Info shows an informational toast.
func (fm *FeedbackManager) Info(message string) {
	fm.toasts.Show(message, ToastInfo, 2*time.Second)
}

// OnRejected handles a rejected move attempt.
func (fm *FeedbackManager) OnRejected(from, to board.Tile, err error) {
	fm.toasts.Show(rejectionMessage(err), ToastWarning, 2*time.Second)
	fm.animations.StartShake(from)
	if to.Valid() {
		fm.animations.StartFlash(to, color.RGBA{255, 80, 80, 150})
	}
}

// OnMove handles a completed move.
func (fm *FeedbackManager) OnMove(d game.Delta) {
	if d.Check && !d.GameOver {
		fm.toasts.Show("Check!", ToastWarning, 2*time.Second)
	}
}

// OnGameOver handles the end of the game.
func (fm *FeedbackManager) OnGameOver(message string, decisive bool) {
	kind := ToastInfo
	if decisive {
		kind = ToastSuccess
	}
	fm.toasts.Show(message, kind, 5*time.Second)
}
