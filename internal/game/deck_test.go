package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawPairWithoutReplacement(t *testing.T) {
	d := NewDeck(DefaultDeck())
	seen := make(map[string]int)
	for i := 0; i < 10; i++ {
		a, b := d.DrawPair(nil)
		assert.NotEqual(t, a.ID, b.ID)
		seen[a.ID]++
		seen[b.ID]++
	}
	// 10 draws exhaust the 20-image deck exactly once
	assert.Len(t, seen, 20)
	for id, n := range seen {
		assert.Equal(t, 1, n, "image %s drawn more than once before the deck re-armed", id)
	}

	// the deck re-arms instead of running dry
	a, b := d.DrawPair(nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDrawPairTopicFilter(t *testing.T) {
	d := NewDeck(DefaultDeck())
	// the default deck carries four animal images, enough for two pairs
	for i := 0; i < 2; i++ {
		a, b := d.DrawPair([]string{"animal"})
		assert.True(t, hasAnyTag(a, []string{"animal"}), "image %s should match topic", a.Title)
		assert.True(t, hasAnyTag(b, []string{"animal"}), "image %s should match topic", b.Title)
	}
}

func TestDrawPairFallsBackOnThinTopics(t *testing.T) {
	d := NewDeck(DefaultDeck())
	// no image carries this tag; the full deck steps in
	a, b := d.DrawPair([]string{"submarines"})
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.Title)
}

func TestDrawPairTinyDeck(t *testing.T) {
	items := DefaultDeck()[:2]
	d := NewDeck(items)
	for i := 0; i < 3; i++ {
		a, b := d.DrawPair(nil)
		assert.NotEqual(t, a.ID, b.ID)
	}
}
