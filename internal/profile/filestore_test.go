package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	p := Profile{
		ID:     "player-1",
		Name:   "Sam",
		Avatar: "🦊",
		Color:  "linear-gradient(135deg, #667eea, #764ba2)",
		History: []MatchResult{
			{RoomCode: "ABC234", Rounds: 5, Score: 17, Placement: 1, PlayerCount: 4, ScoringMode: "competitive"},
		},
	}
	require.NoError(t, s.Save(p))

	got, err := s.Load("player-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestFileStoreMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load("nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreCorrupted(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))

	_, err = s.Load("broken")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreOverwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(Profile{ID: "p", Name: "Old"}))
	require.NoError(t, s.Save(Profile{ID: "p", Name: "New", History: []MatchResult{{RoomCode: "XYZ789"}}}))

	got, err := s.Load("p")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	require.Len(t, got.History, 1)
}
