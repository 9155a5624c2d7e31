package stage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"factgate/internal/model"
)

// OutputFilename is the artifact handed to the next pipeline stage
const OutputFilename = "2_validated_facts.json"

// LoadRecords reads the upstream stage's JSON artifact
func LoadRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input artifact: %w", err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode input artifact %s: %w", path, err)
	}

	return records, nil
}

// SaveRecords writes the validated artifact with stable field names, since
// downstream stages key off validation_status
func SaveRecords(path string, records []model.Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode output artifact: %w", err)
	}

	return nil
}

// OutputPath derives the output artifact path next to the input artifact
func OutputPath(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), OutputFilename)
}
