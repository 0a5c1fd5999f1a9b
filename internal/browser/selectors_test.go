package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

func TestLoadSelectorsDefaults(t *testing.T) {
	sel, err := LoadSelectors("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSelectors(), sel)

	q, err := sel.Checkbox(store.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, `[data-testid="cancelled-checkbox"]`, q)
}

func TestLoadSelectorsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
card: article.rooming-card
booking_guest_name: .guest
checkboxes:
  closed: "#closed"
`), 0o644))

	sel, err := LoadSelectors(path)
	require.NoError(t, err)
	assert.Equal(t, "article.rooming-card", sel.Card)
	assert.Equal(t, ".guest", sel.BookingGuestName)
	assert.Equal(t, DefaultSelectors().CardName, sel.CardName)
	assert.Equal(t, "#closed", sel.Checkboxes["closed"])
	assert.Equal(t, `[data-testid="active-checkbox"]`, sel.Checkboxes["active"])
}

func TestLoadSelectorsErrors(t *testing.T) {
	_, err := LoadSelectors(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "blank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("card: \"\"\n"), 0o644))
	_, err = LoadSelectors(path)
	assert.ErrorContains(t, err, "selector card is empty")

	path = filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("card: [unterminated\n"), 0o644))
	_, err = LoadSelectors(path)
	assert.Error(t, err)
}
