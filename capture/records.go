package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/segmentio/encoding/json"
)

// ReadRecords decodes a JSON traffic file: either a bare array of records
// or an object with a top-level "records" array.
func ReadRecords(r io.Reader) ([]*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("capture: reading traffic records: %w", err)
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Records []*Record `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("capture: traffic file is neither a record array nor a records object: %w", err)
	}
	if wrapped.Records == nil {
		return nil, fmt.Errorf("capture: traffic object has no \"records\" array")
	}
	return wrapped.Records, nil
}

// ReadRecordsFile is ReadRecords for a file on disk.
func ReadRecordsFile(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: opening traffic file: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}
