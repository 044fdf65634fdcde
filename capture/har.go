package capture

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/segmentio/encoding/json"
)

// HAR 1.2 structures, reduced to the fields conformance checking uses.
// Everything else in an archive (timings breakdown, cache info, cookies)
// is ignored on decode.

type harFile struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Entries []harEntry `json:"entries"`
}

type harEntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Time            float64     `json:"time"` // total elapsed, milliseconds
	Request         harRequest  `json:"request"`
	Response        harResponse `json:"response"`
}

type harRequest struct {
	Method   string       `json:"method"`
	URL      string       `json:"url"`
	Headers  []harHeader  `json:"headers"`
	PostData *harPostData `json:"postData"`
}

type harResponse struct {
	Status  int         `json:"status"`
	Headers []harHeader `json:"headers"`
	Content harContent  `json:"content"`
}

type harHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harPostData struct {
	Text string `json:"text"`
}

type harContent struct {
	Text string `json:"text"`
}

// ReadHAR decodes an HTTP Archive (HAR 1.2) into traffic records.
// Bodies stay raw text; the conformance layer decodes JSON lazily so
// non-JSON entries still flow through path and status checks.
func ReadHAR(r io.Reader) ([]*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("capture: reading HAR: %w", err)
	}

	var archive harFile
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("capture: decoding HAR: %w", err)
	}
	if archive.Log.Entries == nil {
		return nil, fmt.Errorf("capture: HAR has no log.entries")
	}

	records := make([]*Record, 0, len(archive.Log.Entries))
	for _, entry := range archive.Log.Entries {
		rec := &Record{
			Method:          entry.Request.Method,
			URL:             entry.Request.URL,
			Headers:         headerMap(entry.Request.Headers),
			Status:          entry.Response.Status,
			ResponseHeaders: headerMap(entry.Response.Headers),
		}
		if entry.Request.PostData != nil && entry.Request.PostData.Text != "" {
			rec.Body = entry.Request.PostData.Text
		}
		if entry.Response.Content.Text != "" {
			rec.ResponseBody = entry.Response.Content.Text
		}
		if started, err := time.Parse(time.RFC3339, entry.StartedDateTime); err == nil {
			rec.StartedAt = started
			if entry.Time > 0 {
				rec.CompletedAt = started.Add(time.Duration(entry.Time * float64(time.Millisecond)))
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadHARFile is ReadHAR for a file on disk.
func ReadHARFile(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: opening HAR file: %w", err)
	}
	defer f.Close()
	return ReadHAR(f)
}

// headerMap flattens HAR header pairs to one value per name; the first
// occurrence wins.
func headerMap(headers []harHeader) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		if _, ok := m[h.Name]; !ok {
			m[h.Name] = h.Value
		}
	}
	return m
}
