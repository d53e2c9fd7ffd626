package localstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.GetItem(KeyDatabaseImage)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(KeyDatabaseImage, "[1,2,3]"))
	require.NoError(t, s.SetItem(KeyDatabaseImage, "[4,5]"))

	v, ok, err := s.GetItem(KeyDatabaseImage)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[4,5]", v)

	require.NoError(t, s.RemoveItem(KeyDatabaseImage))
	require.NoError(t, s.RemoveItem(KeyDatabaseImage))
	_, ok, err = s.GetItem(KeyDatabaseImage)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorage_KeysWithSeparators(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.SetItem("a/b", "slash"))
	require.NoError(t, s.SetItem("a_b", "underscore"))

	v, _, err := s.GetItem("a/b")
	require.NoError(t, err)
	assert.Equal(t, "slash", v)
	v, _, err = s.GetItem("a_b")
	require.NoError(t, err)
	assert.Equal(t, "underscore", v)
}

func TestPreferences_Defaults(t *testing.T) {
	prefs := NewPreferences(NewMemory())

	name, err := prefs.RecipientName()
	require.NoError(t, err)
	assert.Equal(t, DefaultRecipientName, name)

	upi, err := prefs.UPIID()
	require.NoError(t, err)
	assert.Equal(t, DefaultUPIID, upi)

	dark, err := prefs.DarkMode()
	require.NoError(t, err)
	assert.False(t, dark)

	require.NoError(t, prefs.SetUPIID("shop@upi"))
	require.NoError(t, prefs.SetDarkMode(true))

	upi, _ = prefs.UPIID()
	assert.Equal(t, "shop@upi", upi)
	dark, _ = prefs.DarkMode()
	assert.True(t, dark)
}
