// Package stations serves the fixed list of campus umbrella stations.
// Inventory is not tracked; the counts are placeholders for the map view.
package stations

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed stations.json
var fixture []byte

type Umbrellas struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Borrowed    int `json:"borrowed"`
	Maintenance int `json:"maintenance"`
}

type Station struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	Umbrellas   Umbrellas  `json:"umbrellas"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Load decodes the embedded fixture.
func Load() ([]Station, error) {
	var out []Station
	if err := json.Unmarshal(fixture, &out); err != nil {
		return nil, fmt.Errorf("decode stations fixture: %w", err)
	}
	return out, nil
}
