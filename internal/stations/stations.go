// Package stations maps TIPLOC location codes to passenger stations.
package stations

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed tiploc_to_station.json
var tiplocJSON []byte

type Station struct {
	CRS      string `json:"crs"`
	FullName string `json:"fullName"`
}

// Table is keyed by TIPLOC. It is never modified after loading.
type Table map[string]Station

var loadDefault = sync.OnceValues(func() (Table, error) {
	return Parse(tiplocJSON)
})

// Default returns the embedded table, parsed once per process.
func Default() (Table, error) {
	return loadDefault()
}

func Parse(b []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse tiploc table: %w", err)
	}
	return t, nil
}

func (t Table) Lookup(tiploc string) (Station, bool) {
	s, ok := t[tiploc]
	return s, ok
}
