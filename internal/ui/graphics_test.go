package ui

import (
	"testing"

	"carsync/internal/geo"
	"carsync/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestRenderMapImage(t *testing.T) {
	markers := geo.Markers([]model.Car{car(1, "Volvo", 2019, 25000)})
	img := geo.Raster(markers, 160, 80)

	assert.NotEmpty(t, RenderMapImage(img, TerminalCapabilities{}, 40, 10))
	assert.Empty(t, RenderMapImage(img, TerminalCapabilities{}, 0, 10))
}

func TestDetectTerminalCapabilities(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, DetectTerminalCapabilities().Colored)

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	assert.True(t, DetectTerminalCapabilities().Colored)

	t.Setenv("TERM", "dumb")
	assert.False(t, DetectTerminalCapabilities().Colored)
}
