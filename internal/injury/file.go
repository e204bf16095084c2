package injury

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadFile parses a JSON injury file keyed by team abbreviation, e.g.
//
//	{"SAS": [{"player": "V. Wembanyama", "status": "out", "role": "star", "reason": "knee"}]}
func ReadFile(path string) (map[string][]Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read injury file: %w", err)
	}

	data := make(map[string][]Report)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse injury file %s: %w", path, err)
	}
	return data, nil
}

// WriteFile persists an injury map as indented JSON.
func WriteFile(path string, data map[string][]Report) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode injury file: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write injury file: %w", err)
	}
	return nil
}

// LoadFile reads an injury file and loads every report into the ledger.
func (l *Ledger) LoadFile(path string) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	l.LoadFromMap(data)
	return nil
}
