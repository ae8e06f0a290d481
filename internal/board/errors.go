package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is wrapped by every move rejection.
var ErrIllegalMove = errors.New("illegal move")

// Move rejection reasons.
var (
	ErrNoPiece            = fmt.Errorf("%w: no piece on start tile", ErrIllegalMove)
	ErrWrongTurn          = fmt.Errorf("%w: wrong side to move", ErrIllegalMove)
	ErrOwnPieceCapture    = fmt.Errorf("%w: destination holds own piece", ErrIllegalMove)
	ErrNotInLegalSet      = fmt.Errorf("%w: destination not in legal set", ErrIllegalMove)
	ErrKingIntoCheck      = fmt.Errorf("%w: king would be in check", ErrIllegalMove)
	ErrDoesNotEscapeCheck = fmt.Errorf("%w: move does not escape check", ErrIllegalMove)
)

// Turn controller errors.
var (
	ErrInvalidTile      = errors.New("invalid tile")
	ErrGameOver         = errors.New("game is over")
	ErrPromotionPending = errors.New("promotion choice pending")
	ErrInvalidPromotion = errors.New("invalid promotion request")
)

// MoveError describes a rejected move.
type MoveError struct {
	Move Move
	Team Team
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%s by %s: %v", e.Move, e.Team, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveError(m Move, team Team, err error) error {
	return &MoveError{Move: m, Team: team, Err: err}
}
