package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrBaseCatalog marks a failure to fetch or decode the required base catalog.
var ErrBaseCatalog = errors.New("base catalog unavailable")

// maxDocumentSize caps a fetched catalog document.
const maxDocumentSize = 8 << 20

// Source fetches catalog documents by name.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads documents from a filesystem, typically os.DirFS or an
// embedded FS.
type DirSource struct {
	FS fs.FS
}

func (d DirSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	return fs.ReadFile(d.FS, name)
}

// HTTPSource fetches documents relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (h HTTPSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimSuffix(h.BaseURL, "/") + "/" + strings.TrimPrefix(name, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// NewSource picks an HTTP source for http(s) locations and a directory source
// otherwise.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return HTTPSource{BaseURL: location}
	}
	if location == "" {
		location = "."
	}
	return DirSource{FS: os.DirFS(location)}
}

// Loader fetches and merges the base and overlay documents.
type Loader struct {
	Source Source
	// Base names the required base document.
	Base string
	// Overlay names the optional overlay document; empty skips it.
	Overlay string
	Log     *slog.Logger
}

// Load fetches both documents concurrently and merges them. Any overlay
// problem is logged and the overlay dropped; any base problem is returned
// wrapped in ErrBaseCatalog.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	log := l.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var (
		base    *BaseDocument
		overlay *OverlayDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := l.Source.ReadFile(gctx, l.Base)
		if err != nil {
			return fmt.Errorf("%w: read %s: %w", ErrBaseCatalog, l.Base, err)
		}
		doc, err := ParseBase(l.Base, raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBaseCatalog, err)
		}
		base = doc
		return nil
	})
	if l.Overlay != "" {
		g.Go(func() error {
			raw, err := l.Source.ReadFile(gctx, l.Overlay)
			if err != nil {
				log.Warn("overlay catalog not loaded", slog.String("name", l.Overlay), slog.Any("err", err))
				return nil
			}
			doc, err := ParseOverlay(l.Overlay, raw)
			if err != nil {
				log.Warn("overlay catalog ignored", slog.String("name", l.Overlay), slog.Any("err", err))
				return nil
			}
			overlay = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat := Merge(base, overlay)
	log.Info("catalog loaded",
		slog.Int("stages", cat.Len()),
		slog.Bool("overlay", overlay != nil),
		slog.String("game_version", cat.GameVersion()),
	)
	return cat, nil
}
