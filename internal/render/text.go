package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Text sizes in screen pixels.
const (
	bubbleTextSize    = 12
	broadcastTextSize = 24
)

type faces struct {
	bubble    font.Face
	broadcast font.Face
}

func loadFaces() (faces, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return faces{}, fmt.Errorf("parse font: %w", err)
	}
	newFace := func(size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	bubble, err := newFace(bubbleTextSize)
	if err != nil {
		return faces{}, fmt.Errorf("bubble face: %w", err)
	}
	broadcast, err := newFace(broadcastTextSize)
	if err != nil {
		return faces{}, fmt.Errorf("broadcast face: %w", err)
	}
	return faces{bubble: bubble, broadcast: broadcast}, nil
}

// textWidth is the advance of s in whole pixels.
func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func dot(x, y int) fixed.Point26_6 {
	return fixed.P(x, y)
}
