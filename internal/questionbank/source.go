package questionbank

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

//go:embed data/quiz-data.json
var defaultBank []byte

// maxBankBytes caps the size of a fetched bank document.
const maxBankBytes = 16 << 20

// Source retrieves the raw question bank document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// SourceFor picks a source for location: empty selects the embedded bank,
// an http(s) URL is fetched over HTTP, anything else is a file path.
func SourceFor(location string) Source {
	switch {
	case location == "":
		return EmbeddedSource{}
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return &HTTPSource{URL: location}
	default:
		return FileSource{Path: location}
	}
}

// EmbeddedSource serves the bank compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Fetch(context.Context) ([]byte, error) {
	return defaultBank, nil
}

func (EmbeddedSource) String() string { return "embedded" }

// FileSource reads the bank from a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return data, nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource fetches the bank with a single GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch question bank: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch question bank: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBankBytes))
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return data, nil
}

func (s *HTTPSource) String() string { return s.URL }
