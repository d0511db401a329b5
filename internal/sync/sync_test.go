package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/knoldeck/internal/storage"
)

func writeDeck(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunSyncLocalSource(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	writeDeck(t, dir, "math.md", "Q: 1+1?\nA: 2\n\nQ: 2+2?\nA: 4\n")
	writeDeck(t, dir, "mixed.md", "Q: Capital of France?\nA: Paris\nT: Geography\n\nQ: No answer here\n")
	writeDeck(t, dir, "notes.txt", "Q: ignored\nA: ignored\n")

	s := New(db, t.TempDir(), nil)
	id, err := s.AddSource(dir)
	require.NoError(t, err)

	report, err := s.RunSync()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sources)
	assert.Equal(t, 3, report.Parsed)
	assert.Equal(t, 3, report.Inserted)
	assert.Len(t, report.Errors, 1, "the card without an answer is rejected")

	math, err := db.FindTopicByName("math")
	require.NoError(t, err)
	require.NotNil(t, math)
	cards, err := db.ListCards(math.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	geo, err := db.FindTopicByName("Geography")
	require.NoError(t, err)
	require.NotNil(t, geo)

	// A learned weight survives a re-sync.
	require.NoError(t, db.SetCardWeight(cards[0].ID, 0.2))
	report, err = s.RunSync()
	require.NoError(t, err)
	assert.Zero(t, report.Inserted)
	w, err := db.GetCardWeight(cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0.2, w)

	// Removing a card from the deck deletes it from the store.
	writeDeck(t, dir, "math.md", "Q: 1+1?\nA: 2\n")
	report, err = s.RunSync()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Orphaned)

	imported, err := db.GetCardsBySourceID(id)
	require.NoError(t, err)
	assert.Len(t, imported, 2)
}

func TestRunSyncNoSources(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	report, err := New(db, t.TempDir(), nil).RunSync()
	require.NoError(t, err)
	assert.Zero(t, report.Sources)
}

func TestGitURLToLocalPath(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{url: "https://github.com/user/decks.git", expected: filepath.Join("repos", "github.com", "user", "decks")},
		{url: "git@github.com:user/decks.git", expected: filepath.Join("repos", "github.com", "user", "decks")},
		{url: "ftp://nowhere", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			got, err := gitURLToLocalPath("repos", tc.url)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDeckName(t *testing.T) {
	assert.Equal(t, "french-verbs", deckName("/decks/french-verbs.md"))
}
