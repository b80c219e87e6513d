package ui

import (
	"encoding/json"
	"os"
	"path/filepath"

	"carsync/internal/model"

	"github.com/pkg/errors"
)

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey   model.SortKey   `json:"sort_key"`
	SortOrder model.SortOrder `json:"sort_order"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	Cars TablePrefs `json:"cars"`
}

func defaultUIPreferences() UIPreferences {
	return UIPreferences{Cars: TablePrefs{SortOrder: model.SortAsc}}
}

// DefaultPrefsPath returns ~/.carsync/ui_prefs.json.
func DefaultPrefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home dir")
	}
	return filepath.Join(home, ".carsync", "ui_prefs.json"), nil
}

func loadUIPreferences(path string) UIPreferences {
	if path == "" {
		return defaultUIPreferences()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaultUIPreferences()
	}

	var prefs UIPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return defaultUIPreferences()
	}
	switch prefs.Cars.SortKey {
	case model.SortNone, model.SortYear, model.SortPrice:
	default:
		return defaultUIPreferences()
	}
	return prefs
}

func saveUIPreferences(path string, prefs UIPreferences) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create prefs dir")
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal prefs")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write prefs")
	}
	return nil
}
