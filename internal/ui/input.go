package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/hailam/tilechess/internal/board"
)

// Command is a keyboard action.
type Command int

const (
	CmdNone Command = iota
	CmdNewGame
	CmdHint
	CmdToggleMode
	CmdSwitchSide
	CmdFlip
	CmdToggleAttacked
	CmdEasy
	CmdMedium
	CmdHard
	CmdPromoteQueen
	CmdPromoteRook
	CmdPromoteBishop
	CmdPromoteKnight
)

// keyBindings maps keys to commands.
var keyBindings = []struct {
	key ebiten.Key
	cmd Command
}{
	{ebiten.KeyN, CmdNewGame},
	{ebiten.KeyH, CmdHint},
	{ebiten.KeyM, CmdToggleMode},
	{ebiten.KeyS, CmdSwitchSide},
	{ebiten.KeyF, CmdFlip},
	{ebiten.KeyA, CmdToggleAttacked},
	{ebiten.Key1, CmdEasy},
	{ebiten.Key2, CmdMedium},
	{ebiten.Key3, CmdHard},
	{ebiten.KeyQ, CmdPromoteQueen},
	{ebiten.KeyR, CmdPromoteRook},
	{ebiten.KeyB, CmdPromoteBishop},
	{ebiten.KeyK, CmdPromoteKnight},
}

// promotionCommand returns the piece a promotion command selects.
func promotionCommand(cmd Command) (board.PieceType, bool) {
	switch cmd {
	case CmdPromoteQueen:
		return board.Queen, true
	case CmdPromoteRook:
		return board.Rook, true
	case CmdPromoteBishop:
		return board.Bishop, true
	case CmdPromoteKnight:
		return board.Knight, true
	default:
		return board.NoType, false
	}
}

// InputHandler manages mouse and keyboard input.
type InputHandler struct {
	mouseX, mouseY   int
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
	commands         []Command
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update updates the input state. Call this once per frame.
func (ih *InputHandler) Update() {
	ih.mouseX, ih.mouseY = ebiten.CursorPosition()
	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	ih.commands = ih.commands[:0]
	for _, kb := range keyBindings {
		if inpututil.IsKeyJustPressed(kb.key) {
			ih.commands = append(ih.commands, kb.cmd)
		}
	}
}

// Commands returns the keyboard commands issued this frame.
func (ih *InputHandler) Commands() []Command {
	return ih.commands
}

// MousePosition returns the current mouse position.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// IsLeftJustPressed returns true if the left mouse button was just pressed.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased returns true if the left mouse button was just released.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsLeftPressed returns true if the left mouse button is currently pressed.
func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// IsInBounds returns true if the mouse is within the given rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}
