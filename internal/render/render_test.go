package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurfaces(t *testing.T) {
	s := NewSurfaces()

	_, ok := s.Text("requests")
	assert.False(t, ok)

	s.Write("requests", "10")
	s.Write("requests", "20")
	s.Write("latency", "12ms")

	text, ok := s.Text("requests")
	assert.True(t, ok)
	assert.Equal(t, "20", text)
	assert.Equal(t, []string{"10", "20"}, s.History("requests"))
	assert.Equal(t, []string{"latency", "requests"}, s.IDs())
	assert.Equal(t, map[string]string{"requests": "20", "latency": "12ms"}, s.Snapshot())
}

func TestSurfaces_ConcurrentWrites(t *testing.T) {
	s := NewSurfaces()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Write("counter", "x")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, s.History("counter"), 1000)
}

func TestLoadingPlaceholders(t *testing.T) {
	s := NewSurfaces()

	ShowLoading(s, "table", "")
	text, _ := s.Text("table")
	assert.Equal(t, "Loading...", text)

	ShowLoading(s, "table", "Fetching servers...")
	text, _ = s.Text("table")
	assert.Equal(t, "Fetching servers...", text)

	HideLoading(s, "table")
	text, _ = s.Text("table")
	assert.Equal(t, "", text)
}

func TestMulti(t *testing.T) {
	a, b := NewSurfaces(), NewSurfaces()
	Multi(a, b).Write("id", "v")

	ta, _ := a.Text("id")
	tb, _ := b.Text("id")
	assert.Equal(t, "v", ta)
	assert.Equal(t, "v", tb)
}

func TestRendererFunc(t *testing.T) {
	var got [2]string
	RendererFunc(func(id, text string) { got = [2]string{id, text} }).Write("a", "b")
	assert.Equal(t, [2]string{"a", "b"}, got)
}
