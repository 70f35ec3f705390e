// Package res loads documents to paginate from files, URLs, data URLs and
// standard input.
package res

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Kind is the format of a loaded document
type Kind int

const (
	// KindText is plain text
	KindText Kind = iota
	// KindHTML is markup
	KindHTML
)

// Stdin is the location that reads standard input
const Stdin = "-"

// MaxSize bounds a remote document
const MaxSize = 32 << 20

// ErrNotFound is returned when a local document exists in no search path
var ErrNotFound = errors.New("document not found")

// Resource is a loaded document
type Resource struct {
	URL      string
	Kind     Kind
	Data     []byte
	MimeType string
}

// Loader resolves and loads documents. Remote and data URL documents are
// cached for the loader's lifetime.
type Loader struct {
	// BaseURL or file path for resolving relative locations
	BaseURL string
	// Stdin is read for the "-" location
	Stdin io.Reader

	searchPaths []string
	cache       *gocache.Cache
	client      *http.Client
	log         zerolog.Logger
}

// NewLoader creates a new document loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		Stdin:   os.Stdin,
		cache:   gocache.New(gocache.NoExpiration, 0),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
}

// SetLogger sets the logger used for load diagnostics
func (l *Loader) SetLogger(log zerolog.Logger) {
	l.log = log
}

// AddSearchPath adds a directory to search for local documents
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a document from a URL, a file path, a data URL or stdin
func (l *Loader) Load(ctx context.Context, location string) (*Resource, error) {
	if location == Stdin {
		data, err := io.ReadAll(l.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &Resource{URL: Stdin, Data: data, MimeType: sniffMimeType(data), Kind: kindOf(sniffMimeType(data))}, nil
	}

	if cached, ok := l.cache.Get(location); ok {
		return cached.(*Resource), nil
	}

	var (
		res *Resource
		err error
	)
	switch {
	case strings.HasPrefix(location, "data:"):
		res, err = parseDataURL(location)
	default:
		var resolved string
		resolved, err = l.resolveURL(location)
		if err != nil {
			return nil, err
		}
		if isRemote(resolved) {
			res, err = l.loadRemote(ctx, resolved)
		} else {
			return l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}

	l.cache.SetDefault(location, res)
	return res, nil
}

// parseDataURL parses a data URL (RFC 2397), for example
// data:text/html;base64,PHA+aGk8L3A+ or data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "text/plain"
	encoded := false
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0 && part != "":
			mime = part
		case strings.EqualFold(part, "base64"):
			encoded = true
		}
	}

	var data []byte
	if encoded {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = decoded
	} else if d, err := url.PathUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}

	return &Resource{URL: u, Data: data, MimeType: mime, Kind: kindOf(mime)}, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// resolveURL resolves a location relative to the base URL
func (l *Loader) resolveURL(location string) (string, error) {
	if isRemote(location) || filepath.IsAbs(location) || l.BaseURL == "" {
		return location, nil
	}

	if !isRemote(l.BaseURL) {
		return filepath.Join(filepath.Dir(l.BaseURL), location), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	rel, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	return base.ResolveReference(rel).String(), nil
}

// loadRemote fetches a document over HTTP
func (l *Loader) loadRemote(ctx context.Context, location string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP error: %s", location, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("fetch %s: document larger than %d bytes", location, MaxSize)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = sniffMimeType(data)
	}
	l.log.Debug().Str("url", location).Int("bytes", len(data)).Str("mime", mime).Msg("fetched document")
	return &Resource{URL: location, Data: data, MimeType: mime, Kind: kindOf(mime)}, nil
}

// loadLocal reads a file, falling back to the search paths when it does not
// exist
func (l *Loader) loadLocal(path string) (*Resource, error) {
	candidates := []string{path}
	for _, dir := range l.searchPaths {
		candidates = append(candidates, filepath.Join(dir, filepath.Base(path)))
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", candidate, err)
		}
		mime := determineMimeType(candidate, data)
		return &Resource{URL: candidate, Data: data, MimeType: mime, Kind: kindOf(mime)}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// determineMimeType determines the MIME type of a file from its extension,
// sniffing the content when the extension says nothing
func determineMimeType(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return "text/html"
	case ".txt", ".text", ".md":
		return "text/plain"
	default:
		return sniffMimeType(data)
	}
}

func sniffMimeType(data []byte) string {
	return http.DetectContentType(data)
}

func kindOf(mime string) Kind {
	mime = strings.ToLower(mime)
	if strings.HasPrefix(mime, "text/html") || strings.HasPrefix(mime, "application/xhtml") {
		return KindHTML
	}
	return KindText
}

// Content returns the document as page content. Plain text is escaped so
// that angle brackets in it are not taken for markup.
func (r *Resource) Content() string {
	if r.Kind == KindHTML {
		return string(r.Data)
	}
	return textEscaper.Replace(string(r.Data))
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// GetString returns the resource data as a string
func (r *Resource) GetString() string {
	return string(r.Data)
}
