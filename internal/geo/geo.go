// Package geo projects the car collection onto map coordinates. It only reads
// cars and never changes them.
package geo

import (
	"image"
	"image/color"
	"math"

	"carsync/internal/model"
)

// Fallback is the map centre used when no car has coordinates.
var Fallback = Point{Lat: 59.93, Lng: 30.31}

// minSpan keeps a lone marker from collapsing the view to zero size.
const minSpan = 0.05

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lng float64
}

// Marker is a car placed on the map.
type Marker struct {
	Car   model.Car
	Point Point
}

// Markers returns one marker per car whose latitude and longitude are both finite.
func Markers(cars []model.Car) []Marker {
	markers := make([]Marker, 0, len(cars))
	for _, c := range cars {
		if !c.HasCoords() {
			continue
		}
		markers = append(markers, Marker{
			Car:   c,
			Point: Point{Lat: *c.Latitude, Lng: *c.Longitude},
		})
	}
	return markers
}

// Center returns the mean position of the markers, or Fallback when there are none.
func Center(markers []Marker) Point {
	if len(markers) == 0 {
		return Fallback
	}
	var lat, lng float64
	for _, m := range markers {
		lat += m.Point.Lat
		lng += m.Point.Lng
	}
	n := float64(len(markers))
	return Point{Lat: lat / n, Lng: lng / n}
}

// Bounds is the rectangle a map view covers.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// View computes bounds that contain every marker, centred on Center, with a
// small margin.
func View(markers []Marker) Bounds {
	c := Center(markers)
	halfLat, halfLng := minSpan/2, minSpan/2
	for _, m := range markers {
		halfLat = math.Max(halfLat, math.Abs(m.Point.Lat-c.Lat)*1.1)
		halfLng = math.Max(halfLng, math.Abs(m.Point.Lng-c.Lng)*1.1)
	}
	return Bounds{
		MinLat: c.Lat - halfLat,
		MaxLat: c.Lat + halfLat,
		MinLng: c.Lng - halfLng,
		MaxLng: c.Lng + halfLng,
	}
}

// Pixel maps p into a width x height raster covering b. North is up.
func (b Bounds) Pixel(p Point, width, height int) image.Point {
	x := (p.Lng - b.MinLng) / (b.MaxLng - b.MinLng) * float64(width-1)
	y := (b.MaxLat - p.Lat) / (b.MaxLat - b.MinLat) * float64(height-1)
	return image.Point{X: int(math.Round(x)), Y: int(math.Round(y))}
}

var (
	landColor   = color.RGBA{R: 0x2A, G: 0x33, B: 0x2C, A: 0xFF}
	gridColor   = color.RGBA{R: 0x3A, G: 0x45, B: 0x3C, A: 0xFF}
	markerColor = color.RGBA{R: 0xF3, G: 0x8B, B: 0xA8, A: 0xFF}
	centerColor = color.RGBA{R: 0x8F, G: 0xA0, B: 0x82, A: 0xFF}
)

// Raster draws the markers onto a width x height image.
func Raster(markers []Marker, width, height int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := landColor
			if x%16 == 0 || y%16 == 0 {
				c = gridColor
			}
			img.SetRGBA(x, y, c)
		}
	}

	b := View(markers)
	radius := max(1, min(width, height)/40)
	center := b.Pixel(Center(markers), width, height)
	for d := -radius * 2; d <= radius*2; d++ {
		setIn(img, center.X+d, center.Y, centerColor)
		setIn(img, center.X, center.Y+d, centerColor)
	}
	for _, m := range markers {
		p := b.Pixel(m.Point, width, height)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				setIn(img, p.X+dx, p.Y+dy, markerColor)
			}
		}
	}
	return img
}

// IsMarker reports whether c is the marker colour used by Raster.
func IsMarker(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	mr, mg, mb, _ := markerColor.RGBA()
	return r == mr && g == mg && b == mb
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Rect) {
		img.SetRGBA(x, y, c)
	}
}
