package store

import (
	"errors"
	"testing"

	"github.com/ndmitriev/weathercast/internal/weather"
)

func TestLatestBeforeFirstSave(t *testing.T) {
	s := NewSnapshotStore()

	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !s.UpdatedAt().IsZero() {
		t.Error("expected zero UpdatedAt before first save")
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := NewSnapshotStore()

	s.SaveSnapshot(weather.WeatherSnapshot{City: "Moscow"})
	s.SaveSnapshot(weather.WeatherSnapshot{City: "Kazan"})

	got, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.City != "Kazan" {
		t.Errorf("expected latest city Kazan, got %q", got.City)
	}
	if s.UpdatedAt().IsZero() {
		t.Error("expected UpdatedAt to be set after save")
	}
}
