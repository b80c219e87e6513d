package ui

import (
	"os"
	"path/filepath"
	"testing"

	"carsync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ui_prefs.json")
	prefs := UIPreferences{Cars: TablePrefs{SortKey: model.SortYear, SortOrder: model.SortDesc}}

	require.NoError(t, saveUIPreferences(path, prefs))
	assert.Equal(t, prefs, loadUIPreferences(path))
}

func TestPrefsFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, defaultUIPreferences(), loadUIPreferences(filepath.Join(dir, "missing.json")))
	assert.Equal(t, defaultUIPreferences(), loadUIPreferences(""))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"cars":{"sort_key":"color"}}`), 0644))
	assert.Equal(t, defaultUIPreferences(), loadUIPreferences(bad))

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`{`), 0644))
	assert.Equal(t, defaultUIPreferences(), loadUIPreferences(garbage))
}
