package words

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// ErrUnavailable is returned when no word list exists for a length.
var ErrUnavailable = errors.New("word list unavailable")

// DefaultPattern names list files by length, e.g. "5letterwords.json".
const DefaultPattern = "%dletterwords.json"

// Source loads the word list for one length.
type Source interface {
	Load(ctx context.Context, length int) (*List, error)
}

// listFile is the on-disk and over-the-wire shape: {"words": [...]}.
type listFile struct {
	Words []string `json:"words"`
}

// FSSource reads lists from a file system (embedded assets or a directory).
type FSSource struct {
	FS      fs.FS
	Pattern string // fmt pattern taking the length; DefaultPattern if empty
}

// Load reads and parses the file for length.
func (s FSSource) Load(ctx context.Context, length int) (*List, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrUnavailable, length)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf(patternOr(s.Pattern), length)
	b, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
	}
	raw, err := parse(name, b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return NewList(length, raw), nil
}

// HTTPSource fetches lists from a static file server.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Pattern string
}

// Load GETs BaseURL/<pattern> and parses the JSON body.
func (s HTTPSource) Load(ctx context.Context, length int) (*List, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrUnavailable, length)
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	name := fmt.Sprintf(patternOr(s.Pattern), length)
	url := strings.TrimRight(s.BaseURL, "/") + "/" + name

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	raw, err := parseJSON(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return NewList(length, raw), nil
}

func patternOr(p string) string {
	if p == "" {
		return DefaultPattern
	}
	return p
}

// parse picks the decoder by extension: JSON for .json, lines otherwise.
func parse(name string, b []byte) ([]string, error) {
	if strings.EqualFold(path.Ext(name), ".json") {
		return parseJSON(b)
	}
	return parseLines(b)
}

func parseJSON(b []byte) ([]string, error) {
	var f listFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return f.Words, nil
}

// parseLines reads one word per line; blank lines and #comments are skipped.
func parseLines(b []byte) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}
