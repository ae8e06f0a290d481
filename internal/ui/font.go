package ui

import (
	"bytes"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Text sizes in points.
const (
	bodyTextSize       = 14.0
	coordinateTextSize = 11.0
	statusTextSize     = 16.0
)

var (
	fontOnce   sync.Once
	regularSrc *text.GoTextFaceSource
	boldSrc    *text.GoTextFaceSource
)

func fontSources() (regular, bold *text.GoTextFaceSource) {
	fontOnce.Do(func() {
		regularSrc = loadFontSource("goregular", goregular.TTF)
		boldSrc = loadFontSource("gobold", gobold.TTF)
	})
	return regularSrc, boldSrc
}

func loadFontSource(name string, ttf []byte) *text.GoTextFaceSource {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		log.Error().Err(err).Str("font", name).Msg("load font")
		return nil
	}
	return src
}

func newFace(bold bool, size float64) *text.GoTextFace {
	regular, b := fontSources()
	src := regular
	if bold {
		src = b
	}
	if src == nil {
		return nil
	}
	return &text.GoTextFace{Source: src, Size: size}
}

// bodyFace is used for panel text and toasts. Like the other faces it is
// nil when the Go fonts failed to load.
func bodyFace() *text.GoTextFace { return newFace(false, bodyTextSize) }

// coordinateFace labels files and ranks on the board edge.
func coordinateFace() *text.GoTextFace { return newFace(false, coordinateTextSize) }

// statusFace announces the game result.
func statusFace() *text.GoTextFace { return newFace(true, statusTextSize) }

// measure returns the size of s drawn with face. A nil face measures zero.
func measure(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
