package geo

import (
	"image"
	"math"
	"testing"

	"carsync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func located(id int64, lat, lng float64) model.Car {
	return model.Car{ID: model.NewID(id), Name: "car", Latitude: model.Float(lat), Longitude: model.Float(lng)}
}

func TestMarkersFilterGeolocated(t *testing.T) {
	cars := []model.Car{
		located(1, 10, 20),
		{ID: model.NewID(2), Latitude: model.Float(1)},
		{ID: model.NewID(3), Longitude: model.Float(1)},
		{ID: model.NewID(4), Latitude: model.Float(math.NaN()), Longitude: model.Float(1)},
		located(5, -10, -20),
	}

	markers := Markers(cars)
	require.Len(t, markers, 2)
	assert.Equal(t, model.NewID(1), markers[0].Car.ID)
	assert.Equal(t, model.NewID(5), markers[1].Car.ID)
}

func TestCenter(t *testing.T) {
	assert.Equal(t, Fallback, Center(nil))

	c := Center(Markers([]model.Car{located(1, 10, 20), located(2, 20, 40)}))
	assert.InDelta(t, 15, c.Lat, 1e-9)
	assert.InDelta(t, 30, c.Lng, 1e-9)
}

func TestViewContainsMarkers(t *testing.T) {
	markers := Markers([]model.Car{located(1, 59.9, 30.2), located(2, 60.1, 30.5)})
	b := View(markers)
	for _, m := range markers {
		assert.True(t, m.Point.Lat > b.MinLat && m.Point.Lat < b.MaxLat)
		assert.True(t, m.Point.Lng > b.MinLng && m.Point.Lng < b.MaxLng)
	}
}

func TestViewSingleMarkerHasSpan(t *testing.T) {
	b := View(Markers([]model.Car{located(1, 1, 1)}))
	assert.InDelta(t, minSpan, b.MaxLat-b.MinLat, 1e-9)
	assert.InDelta(t, minSpan, b.MaxLng-b.MinLng, 1e-9)
}

func TestPixelOrientation(t *testing.T) {
	b := Bounds{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	assert.Equal(t, image.Pt(0, 0), b.Pixel(Point{Lat: 10, Lng: 0}, 11, 11))
	assert.Equal(t, image.Pt(10, 10), b.Pixel(Point{Lat: 0, Lng: 10}, 11, 11))
}

func TestRasterDrawsMarkers(t *testing.T) {
	markers := Markers([]model.Car{located(1, 59.9, 30.2), located(2, 60.1, 30.5)})
	img := Raster(markers, 200, 100)
	b := View(markers)

	for _, m := range markers {
		p := b.Pixel(m.Point, 200, 100)
		assert.True(t, IsMarker(img.At(p.X, p.Y)), "marker at %v", p)
	}
	assert.False(t, IsMarker(img.At(0, 0)))
}

func TestRasterWithoutMarkers(t *testing.T) {
	img := Raster(nil, 0, 0)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}
