package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"codetyper/internal/errors"
	"codetyper/internal/log"
)

const (
	acceptListing = "application/vnd.github+json"
	acceptRaw     = "application/vnd.github.raw"
)

// RemoteConfig describes the repository a Remote source lists
type RemoteConfig struct {
	APIBase   string
	Owner     string
	Repo      string
	UserAgent string
	Timeout   time.Duration
	// Client overrides the HTTP client built from Timeout
	Client *http.Client
}

// Remote enumerates a repository through the GitHub contents API, one
// listing request per directory.
type Remote struct {
	contentsURL string
	repo        string
	userAgent   string
	client      *http.Client
}

// contentItem is one element of a contents listing. Pointers tell a missing
// field from an empty one.
type contentItem struct {
	Path *string `json:"path"`
	Type *string `json:"type"`
}

// NewRemote creates a remote source for cfg
func NewRemote(cfg RemoteConfig) *Remote {
	client := cfg.Client
	if client == nil {
		if cfg.Timeout == 0 {
			cfg.Timeout = 30 * time.Second
		}
		client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &Remote{
		contentsURL: fmt.Sprintf("%s/repos/%s/%s/contents",
			strings.TrimRight(cfg.APIBase, "/"), url.PathEscape(cfg.Owner), url.PathEscape(cfg.Repo)),
		repo:      cfg.Owner + "/" + cfg.Repo,
		userAgent: cfg.UserAgent,
		client:    client,
	}
}

// Name returns "github:owner/repo"
func (r *Remote) Name() string {
	return "github:" + r.repo
}

// Enumerate lists every file in the repository starting at its root
func (r *Remote) Enumerate(ctx context.Context) ([]string, error) {
	return walk(ctx, "", r.list)
}

// Open fetches the raw content of the file at the repository-relative path id
func (r *Remote) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	target := r.urlFor(id)
	resp, err := r.do(ctx, target, acceptRaw)
	if err != nil {
		return nil, errors.NewRemoteError("content request failed", target, 0, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.NewRemoteError("unexpected response fetching content", target, resp.StatusCode, nil)
	}
	return resp.Body, nil
}

// urlFor returns the contents URL for a repository-relative path
func (r *Remote) urlFor(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return r.contentsURL + "/" + strings.Join(segments, "/")
}

func (r *Remote) do(ctx context.Context, target, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", accept)
	return r.client.Do(req)
}

// list fetches one directory listing. Payloads that are valid JSON but not
// an array (error objects, rate limiting) yield an empty listing.
func (r *Remote) list(ctx context.Context, dir string) ([]Entry, error) {
	target := r.urlFor(dir)
	logger := log.LogWithFields(log.F("url", target))

	resp, err := r.do(ctx, target, acceptListing)
	if err != nil {
		return nil, errors.NewRemoteError("listing request failed", target, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRemoteError("failed to read listing", target, resp.StatusCode, err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.NewRemoteError("malformed listing", target, resp.StatusCode, err)
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &payload)
		logger.With(log.F("status", resp.StatusCode), log.F("message", payload.Message)).
			Warn("Listing is not an array, treating directory as empty")
		return nil, nil
	}

	var items []contentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.WithError(err).Warn("Failed to decode listing entries, treating directory as empty")
		return nil, nil
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.Path == nil || item.Type == nil {
			continue
		}
		switch *item.Type {
		case "file":
			entries = append(entries, Entry{Path: *item.Path, Kind: KindFile})
		case "dir":
			entries = append(entries, Entry{Path: *item.Path, Kind: KindDir})
		}
	}
	return entries, nil
}
