package ui

import (
	"image"
	"os"
	"strings"

	"github.com/qeesung/image2ascii/convert"
)

// TerminalCapabilities describes how the map can be drawn.
type TerminalCapabilities struct {
	Colored bool
}

// DetectTerminalCapabilities checks whether the terminal takes ANSI colours.
func DetectTerminalCapabilities() TerminalCapabilities {
	if os.Getenv("NO_COLOR") != "" {
		return TerminalCapabilities{}
	}
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" || strings.HasPrefix(term, "vt1") {
		return TerminalCapabilities{}
	}
	return TerminalCapabilities{Colored: true}
}

// RenderMapImage renders the map raster as ASCII art of the given size.
func RenderMapImage(img image.Image, caps TerminalCapabilities, targetWidth, targetHeight int) string {
	if targetWidth < 1 || targetHeight < 1 {
		return ""
	}
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = caps.Colored
	opts.Ratio = 0.5 // terminal cells are about twice as tall as wide

	return converter.Image2ASCIIString(img, &opts)
}
