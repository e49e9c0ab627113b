package game

import (
	"math/rand"
	"strings"
)

// Deck holds the image pool a match draws its pairs from. Pairs are drawn
// without replacement; the pool is re-armed once fewer than two images
// remain unused.
type Deck struct {
	items []ImageItem
	used  map[string]bool
}

func NewDeck(items []ImageItem) *Deck {
	return &Deck{items: items, used: make(map[string]bool)}
}

// DrawPair picks two distinct unused images, preferring those tagged with
// one of the given topics. When the topic-filtered pool is too small the
// full deck is used instead.
func (d *Deck) DrawPair(topics []string) (ImageItem, ImageItem) {
	pool := d.unusedMatching(topics)
	if len(pool) < 2 {
		pool = d.unusedMatching(nil)
	}
	if len(pool) < 2 {
		d.used = make(map[string]bool)
		pool = d.unusedMatching(topics)
		if len(pool) < 2 {
			pool = d.unusedMatching(nil)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	a, b := pool[0], pool[1]
	d.used[a.ID] = true
	d.used[b.ID] = true
	return a, b
}

func (d *Deck) unusedMatching(topics []string) []ImageItem {
	out := make([]ImageItem, 0, len(d.items))
	for _, it := range d.items {
		if d.used[it.ID] {
			continue
		}
		if len(topics) > 0 && !hasAnyTag(it, topics) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func hasAnyTag(it ImageItem, topics []string) bool {
	for _, tag := range it.Tags {
		for _, topic := range topics {
			if strings.EqualFold(tag, topic) {
				return true
			}
		}
	}
	return false
}

// DefaultDeck is the built-in image pool used when no external media source
// is configured.
func DefaultDeck() []ImageItem {
	return []ImageItem{
		{ID: "1", URL: "https://picsum.photos/id/10/800/800", Title: "Mountain Lake", Tags: []string{"nature", "water", "landscape"}, Kind: MediaImage},
		{ID: "2", URL: "https://picsum.photos/id/1011/800/800", Title: "Woman with Dog", Tags: []string{"people", "animal", "lifestyle"}, Kind: MediaImage},
		{ID: "3", URL: "https://picsum.photos/id/1012/800/800", Title: "Coffee and Book", Tags: []string{"lifestyle", "food", "relax"}, Kind: MediaImage},
		{ID: "4", URL: "https://picsum.photos/id/1015/800/800", Title: "Deep Forest", Tags: []string{"nature", "green", "mystery"}, Kind: MediaImage},
		{ID: "5", URL: "https://picsum.photos/id/1016/800/800", Title: "Canyon River", Tags: []string{"nature", "adventure", "travel"}, Kind: MediaImage},
		{ID: "6", URL: "https://picsum.photos/id/1020/800/800", Title: "Bear in Wild", Tags: []string{"animal", "nature", "danger"}, Kind: MediaImage},
		{ID: "7", URL: "https://picsum.photos/id/1025/800/800", Title: "Beach Sunset", Tags: []string{"nature", "water", "sky"}, Kind: MediaImage},
		{ID: "8", URL: "https://picsum.photos/id/1033/800/800", Title: "Hot Air Balloon", Tags: []string{"travel", "adventure", "sky"}, Kind: MediaImage},
		{ID: "9", URL: "https://picsum.photos/id/1035/800/800", Title: "Waterfall", Tags: []string{"nature", "water", "motion"}, Kind: MediaImage},
		{ID: "10", URL: "https://picsum.photos/id/1039/800/800", Title: "Neon City", Tags: []string{"city", "technology", "night"}, Kind: MediaImage},
		{ID: "11", URL: "https://picsum.photos/id/1044/800/800", Title: "Camping Fire", Tags: []string{"nature", "adventure", "fire"}, Kind: MediaImage},
		{ID: "12", URL: "https://picsum.photos/id/1047/800/800", Title: "Snowy Peak", Tags: []string{"nature", "cold", "mountain"}, Kind: MediaImage},
		{ID: "13", URL: "https://picsum.photos/id/1050/800/800", Title: "Skyline", Tags: []string{"city", "architecture", "view"}, Kind: MediaImage},
		{ID: "14", URL: "https://picsum.photos/id/1054/800/800", Title: "Street Food", Tags: []string{"food", "city", "culture"}, Kind: MediaImage},
		{ID: "15", URL: "https://picsum.photos/id/1059/800/800", Title: "Abstract Art", Tags: []string{"art", "creative", "color"}, Kind: MediaImage},
		{ID: "16", URL: "https://picsum.photos/id/1062/800/800", Title: "Golden Gate", Tags: []string{"travel", "bridge", "city"}, Kind: MediaImage},
		{ID: "17", URL: "https://picsum.photos/id/1067/800/800", Title: "Lush Garden", Tags: []string{"nature", "plants", "peace"}, Kind: MediaImage},
		{ID: "18", URL: "https://picsum.photos/id/1074/800/800", Title: "Big Cat", Tags: []string{"animal", "wildlife", "nature"}, Kind: MediaImage},
		{ID: "19", URL: "https://picsum.photos/id/1084/800/800", Title: "Walrus", Tags: []string{"animal", "ocean", "arctic"}, Kind: MediaImage},
		{ID: "20", URL: "https://picsum.photos/id/111/800/800", Title: "Old Car", Tags: []string{"vintage", "technology", "travel"}, Kind: MediaImage},
	}
}
