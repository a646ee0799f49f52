// Package chart provides the Chart.js option presets used by the dashboard
// charts.
package chart

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme selects grid and tick colors.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// ParseTheme resolves a theme name. The empty string is Dark.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", Dark:
		return Dark, nil
	case Light:
		return Light, nil
	default:
		return "", fmt.Errorf("unknown chart theme %q (expected dark or light)", s)
	}
}

// Options is a Chart.js options object.
type Options struct {
	Responsive          bool      `json:"responsive" yaml:"responsive"`
	MaintainAspectRatio bool      `json:"maintainAspectRatio" yaml:"maintainAspectRatio"`
	Plugins             Plugins   `json:"plugins" yaml:"plugins"`
	Scales              Scales    `json:"scales" yaml:"scales"`
	Elements            *Elements `json:"elements,omitempty" yaml:"elements,omitempty"`
}

type Plugins struct {
	Legend  Legend  `json:"legend" yaml:"legend"`
	Tooltip Tooltip `json:"tooltip" yaml:"tooltip"`
}

type Legend struct {
	Display  bool         `json:"display" yaml:"display"`
	Position string       `json:"position" yaml:"position"`
	Labels   LegendLabels `json:"labels" yaml:"labels"`
}

type LegendLabels struct {
	Font Font `json:"font" yaml:"font"`
}

type Font struct {
	Size   int    `json:"size" yaml:"size"`
	Weight string `json:"weight" yaml:"weight"`
}

type Tooltip struct {
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	TitleColor      string `json:"titleColor" yaml:"titleColor"`
	BodyColor       string `json:"bodyColor" yaml:"bodyColor"`
	BorderColor     string `json:"borderColor" yaml:"borderColor"`
	BorderWidth     int    `json:"borderWidth" yaml:"borderWidth"`
	CornerRadius    int    `json:"cornerRadius" yaml:"cornerRadius"`
	DisplayColors   bool   `json:"displayColors" yaml:"displayColors"`
	Intersect       bool   `json:"intersect" yaml:"intersect"`
	Mode            string `json:"mode" yaml:"mode"`
	Position        string `json:"position" yaml:"position"`
}

type Scales struct {
	X Axis `json:"x" yaml:"x"`
	Y Axis `json:"y" yaml:"y"`
}

type Axis struct {
	Grid  Grid  `json:"grid" yaml:"grid"`
	Ticks Ticks `json:"ticks" yaml:"ticks"`
}

type Grid struct {
	Display bool   `json:"display" yaml:"display"`
	Color   string `json:"color" yaml:"color"`
}

type Ticks struct {
	Color string `json:"color" yaml:"color"`
}

type Elements struct {
	Line  *LineElement  `json:"line,omitempty" yaml:"line,omitempty"`
	Point *PointElement `json:"point,omitempty" yaml:"point,omitempty"`
	Bar   *BarElement   `json:"bar,omitempty" yaml:"bar,omitempty"`
}

type LineElement struct {
	Tension float64 `json:"tension" yaml:"tension"`
}

type PointElement struct {
	Radius      int `json:"radius" yaml:"radius"`
	HoverRadius int `json:"hoverRadius" yaml:"hoverRadius"`
}

type BarElement struct {
	BorderRadius int `json:"borderRadius" yaml:"borderRadius"`
	BorderWidth  int `json:"borderWidth" yaml:"borderWidth"`
}

var themeColors = map[Theme]struct{ grid, ticks string }{
	Dark:  {grid: "rgba(255, 255, 255, 0.1)", ticks: "rgba(255, 255, 255, 0.7)"},
	Light: {grid: "rgba(0, 0, 0, 0.1)", ticks: "rgba(0, 0, 0, 0.7)"},
}

// Defaults returns the options shared by every chart, in the dark theme.
func Defaults() Options {
	axis := Axis{
		Grid:  Grid{Display: true, Color: themeColors[Dark].grid},
		Ticks: Ticks{Color: themeColors[Dark].ticks},
	}
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins: Plugins{
			Legend: Legend{
				Display:  true,
				Position: "top",
				Labels:   LegendLabels{Font: Font{Size: 12, Weight: "500"}},
			},
			Tooltip: Tooltip{
				BackgroundColor: "rgba(0, 0, 0, 0.8)",
				TitleColor:      "#fff",
				BodyColor:       "#fff",
				BorderColor:     "#ddd",
				BorderWidth:     1,
				CornerRadius:    4,
				DisplayColors:   false,
				Intersect:       false,
				Mode:            "index",
				Position:        "nearest",
			},
		},
		Scales: Scales{X: axis, Y: axis},
	}
}

// Line returns the line chart preset.
func Line() Options {
	o := Defaults()
	o.Elements = &Elements{
		Line:  &LineElement{Tension: 0.4},
		Point: &PointElement{Radius: 4, HoverRadius: 6},
	}
	return o
}

// Bar returns the bar chart preset.
func Bar() Options {
	o := Defaults()
	o.Elements = &Elements{
		Bar: &BarElement{BorderRadius: 6, BorderWidth: 2},
	}
	return o
}

// Preset returns the named preset ("default", "line" or "bar") in theme.
func Preset(name string, theme Theme) (Options, error) {
	var o Options
	switch strings.ToLower(name) {
	case "", "default":
		o = Defaults()
	case "line":
		o = Line()
	case "bar":
		o = Bar()
	default:
		return Options{}, fmt.Errorf("unknown chart preset %q (expected default, line or bar)", name)
	}
	return o.WithTheme(theme), nil
}

// WithTheme returns a copy of o with grid and tick colors for theme.
func (o Options) WithTheme(theme Theme) Options {
	colors, ok := themeColors[theme]
	if !ok {
		colors = themeColors[Dark]
	}
	for _, axis := range []*Axis{&o.Scales.X, &o.Scales.Y} {
		axis.Grid.Color = colors.grid
		axis.Ticks.Color = colors.ticks
	}
	return o
}

// JSON encodes o for Chart.js.
func (o Options) JSON() ([]byte, error) {
	return json.Marshal(o)
}

// YAML encodes o as YAML.
func (o Options) YAML() ([]byte, error) {
	return yaml.Marshal(o)
}

// ColorStop is one stop of a gradient.
type ColorStop struct {
	Offset float64 `json:"offset" yaml:"offset"`
	Color  string  `json:"color" yaml:"color"`
}

// LinearGradient describes a canvas linear gradient.
type LinearGradient struct {
	X0    float64     `json:"x0" yaml:"x0"`
	Y0    float64     `json:"y0" yaml:"y0"`
	X1    float64     `json:"x1" yaml:"x1"`
	Y1    float64     `json:"y1" yaml:"y1"`
	Stops []ColorStop `json:"stops" yaml:"stops"`
}

// Gradient returns a vertical gradient over the top 400 pixels of a chart,
// fading from one color to another.
func Gradient(from, to string) LinearGradient {
	return LinearGradient{
		X0: 0, Y0: 0, X1: 0, Y1: 400,
		Stops: []ColorStop{
			{Offset: 0, Color: from},
			{Offset: 1, Color: to},
		},
	}
}
