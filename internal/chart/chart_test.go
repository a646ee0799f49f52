package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

func TestDefaults_JSON(t *testing.T) {
	data, err := Defaults().JSON()
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.True(t, doc.Get("responsive").Bool())
	assert.Equal(t, "false", doc.Get("maintainAspectRatio").Raw)
	assert.Equal(t, "top", doc.Get("plugins.legend.position").String())
	assert.Equal(t, int64(12), doc.Get("plugins.legend.labels.font.size").Int())
	assert.Equal(t, "500", doc.Get("plugins.legend.labels.font.weight").String())
	assert.Equal(t, "rgba(0, 0, 0, 0.8)", doc.Get("plugins.tooltip.backgroundColor").String())
	assert.Equal(t, "false", doc.Get("plugins.tooltip.displayColors").Raw)
	assert.Equal(t, "index", doc.Get("plugins.tooltip.mode").String())
	assert.Equal(t, "rgba(255, 255, 255, 0.1)", doc.Get("scales.x.grid.color").String())
	assert.Equal(t, "rgba(255, 255, 255, 0.7)", doc.Get("scales.y.ticks.color").String())
	assert.False(t, doc.Get("elements").Exists())
}

func TestLine(t *testing.T) {
	data, err := Line().JSON()
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, 0.4, doc.Get("elements.line.tension").Float())
	assert.Equal(t, int64(4), doc.Get("elements.point.radius").Int())
	assert.Equal(t, int64(6), doc.Get("elements.point.hoverRadius").Int())
	assert.False(t, doc.Get("elements.bar").Exists())
	assert.Equal(t, "top", doc.Get("plugins.legend.position").String(), "shares the defaults")
}

func TestBar(t *testing.T) {
	data, err := Bar().JSON()
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, int64(6), doc.Get("elements.bar.borderRadius").Int())
	assert.Equal(t, int64(2), doc.Get("elements.bar.borderWidth").Int())
	assert.False(t, doc.Get("elements.line").Exists())
}

func TestPresetsDoNotShareState(t *testing.T) {
	line := Line()
	line.Elements.Line.Tension = 0
	assert.Equal(t, 0.4, Line().Elements.Line.Tension)
}

func TestPreset(t *testing.T) {
	tests := []struct {
		name    string
		theme   Theme
		wantErr bool
		grid    string
	}{
		{"default", Dark, false, "rgba(255, 255, 255, 0.1)"},
		{"line", Light, false, "rgba(0, 0, 0, 0.1)"},
		{"BAR", Light, false, "rgba(0, 0, 0, 0.1)"},
		{"pie", Dark, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Preset(tt.name, tt.theme)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.grid, o.Scales.X.Grid.Color)
			assert.Equal(t, tt.grid, o.Scales.Y.Grid.Color)
		})
	}
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("")
	require.NoError(t, err)
	assert.Equal(t, Dark, theme)

	theme, err = ParseTheme("Light")
	require.NoError(t, err)
	assert.Equal(t, Light, theme)

	_, err = ParseTheme("solarized")
	assert.Error(t, err)
}

func TestYAML(t *testing.T) {
	data, err := Bar().YAML()
	require.NoError(t, err)

	var decoded Options
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, Bar(), decoded)
}

func TestGradient(t *testing.T) {
	g := Gradient("rgba(59, 130, 246, 0.5)", "rgba(59, 130, 246, 0)")
	assert.Equal(t, 400.0, g.Y1)
	assert.Equal(t, 0.0, g.X1)
	require.Len(t, g.Stops, 2)
	assert.Equal(t, ColorStop{Offset: 0, Color: "rgba(59, 130, 246, 0.5)"}, g.Stops[0])
	assert.Equal(t, ColorStop{Offset: 1, Color: "rgba(59, 130, 246, 0)"}, g.Stops[1])
}
