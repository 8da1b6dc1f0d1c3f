package state

import (
	"encoding/json"
	"fmt"

	"github.com/llehouerou/airwaves/internal/catalog"
)

// Stations are stored as their radio-browser JSON, so records survive
// catalog field additions without schema changes.

func encodeStation(st catalog.Station) (string, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encode station: %w", err)
	}
	return string(b), nil
}

func decodeStation(s string) (catalog.Station, error) {
	var st catalog.Station
	if err := json.Unmarshal([]byte(s), &st); err != nil {
		return catalog.Station{}, fmt.Errorf("decode station: %w", err)
	}
	return st, nil
}
