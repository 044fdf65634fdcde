package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/apitap/apitap/capture"
	"github.com/apitap/apitap/specdoc"
)

// specInput represents the two ways a specification can be provided to a
// tool. Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a specification file on disk (JSON or YAML)"`
	Content string `json:"content,omitempty" jsonschema:"Inline specification content (JSON or YAML)"`
}

// parseCacheStore provides a session-scoped cache for parsed specs so a
// client checking many traffic batches against the same contract does not
// re-parse it per call. File inputs are keyed by (absolutePath, modTime),
// content inputs by a SHA-256 hash.
type parseCacheStore struct {
	mu      sync.Mutex
	entries map[string]*specdoc.ParseResult
	maxSize int
}

var parseCache = &parseCacheStore{
	entries: make(map[string]*specdoc.ParseResult),
	maxSize: 10,
}

func (c *parseCacheStore) get(key string) *specdoc.ParseResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

func (c *parseCacheStore) put(key string, result *specdoc.ParseResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		// At capacity: drop an arbitrary entry. The cache is a small
		// session convenience, not an LRU.
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = result
}

// reset clears all cached entries. Used in tests.
func (c *parseCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*specdoc.ParseResult)
}

// makeCacheKey creates a cache key for the given spec input, or "" when
// the input should not be cached.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// resolve parses the specification from whichever input was provided,
// consulting the session cache first.
func (s specInput) resolve() (*specdoc.ParseResult, error) {
	if (s.File == "") == (s.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if s.Content != "" && len(s.Content) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APITAP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	key := makeCacheKey(s)
	if key != "" {
		if cached := parseCache.get(key); cached != nil {
			return cached, nil
		}
	}

	parser := specdoc.New()
	var (
		result *specdoc.ParseResult
		err    error
	)
	if s.File != "" {
		result, err = parser.ParseFile(s.File)
	} else {
		result, err = parser.ParseReader(strings.NewReader(s.Content))
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		parseCache.put(key, result)
	}
	return result, nil
}

// trafficInput represents the ways captured traffic can be provided to a
// tool: inline records, a traffic records file, or an HTTP Archive.
// Exactly one of Records, File, or HARFile must be set.
type trafficInput struct {
	Records []*capture.Record `json:"records,omitempty"  jsonschema:"Inline traffic records to check"`
	File    string            `json:"file,omitempty"     jsonschema:"Path to a JSON traffic records file on disk"`
	HARFile string            `json:"har_file,omitempty" jsonschema:"Path to an HTTP Archive (HAR 1.2) file on disk"`
}

// resolve loads the traffic records from whichever input was provided.
func (t trafficInput) resolve() ([]*capture.Record, error) {
	count := 0
	if len(t.Records) > 0 {
		count++
	}
	if t.File != "" {
		count++
	}
	if t.HARFile != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of records, file, or har_file must be provided (got %d)", count)
	}

	switch {
	case len(t.Records) > 0:
		return t.Records, nil
	case t.File != "":
		return capture.ReadRecordsFile(t.File)
	default:
		return capture.ReadHARFile(t.HARFile)
	}
}
