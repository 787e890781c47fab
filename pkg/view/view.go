// Package view projects session state onto the widget's visual elements.
// Projections hold no state of their own; every front-end (DOM, HTML) renders
// from a View.
package view

import (
	"github.com/xob0t/bggen/pkg/gradient"
	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/shapes"
)

// Labels shown by every front-end.
const (
	Heading       = "Background Generator"
	GenerateLabel = "Generate"
	SaveLabel     = "Save Image"
)

// State is what a View is projected from. *session.Session satisfies it.
type State interface {
	Colors() palette.Colors
	Shapes() []shapes.Shape
}

// ColorInput is one colour picker bound to a palette index.
type ColorInput struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// Marker is one shape positioned inside the preview.
type Marker struct {
	Top  string `json:"top"`
	Left string `json:"left"`
}

// View is the full widget projection.
type View struct {
	Heading       string       `json:"heading"`
	Inputs        []ColorInput `json:"inputs"`
	Background    string       `json:"background"`
	Markers       []Marker     `json:"markers"`
	GenerateLabel string       `json:"generateLabel"`
	SaveLabel     string       `json:"saveLabel"`
}

// Project builds the View for the current state.
func Project(s State) View {
	colors := s.Colors()
	layout := s.Shapes()

	inputs := make([]ColorInput, len(colors))
	for i, c := range colors {
		inputs[i] = ColorInput{Index: i, Value: c}
	}

	markers := make([]Marker, len(layout))
	for i, sh := range layout {
		markers[i] = Marker{Top: sh.Top, Left: sh.Left}
	}

	return View{
		Heading:       Heading,
		Inputs:        inputs,
		Background:    gradient.Spec(colors),
		Markers:       markers,
		GenerateLabel: GenerateLabel,
		SaveLabel:     SaveLabel,
	}
}

// MarkerStyle returns the inline CSS positioning a marker.
func (m Marker) MarkerStyle() string {
	return "top: " + m.Top + "; left: " + m.Left + ";"
}
