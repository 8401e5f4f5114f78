package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ipfs/go-cid"
	"github.com/ruteri/getipfs/getipfs"
	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/provider"
	"go.uber.org/atomic"
)

// ClientResolver finds a usable IPFS client.
type ClientResolver interface {
	Resolve(ctx context.Context, opts *getipfs.Options) (*provider.Result, error)
}

// ProviderResponse describes the client currently used by the gateway.
type ProviderResponse struct {
	Provider string `json:"provider"`
	Address  string `json:"address,omitempty"`
}

// Handler serves IPFS content through the client found by a ClientResolver.
type Handler struct {
	resolver ClientResolver
	opts     *getipfs.Options
	current  atomic.Pointer[provider.Result]
	log      *slog.Logger
}

// NewHandler creates a gateway handler. opts are used for every resolution.
func NewHandler(resolver ClientResolver, opts *getipfs.Options, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		resolver: resolver,
		opts:     opts,
		log:      log,
	}
}

// Resolve runs discovery and replaces the current client.
// The previous client is kept when resolution fails with an error.
func (h *Handler) Resolve(ctx context.Context) (*provider.Result, error) {
	res, err := h.resolver.Resolve(ctx, h.opts)
	if err != nil {
		return nil, err
	}

	h.current.Store(res)
	if res == nil {
		return nil, interfaces.ErrNoProvider
	}
	return res, nil
}

// Current returns the client in use, or nil.
func (h *Handler) Current() *provider.Result {
	return h.current.Load()
}

// HandleContent streams the content at /ipfs/{cid}[/path].
func (h *Handler) HandleContent(w http.ResponseWriter, r *http.Request) {
	res := h.Current()
	if res == nil {
		http.Error(w, interfaces.ErrNoProvider.Error(), http.StatusServiceUnavailable)
		return
	}

	c, err := cid.Decode(chi.URLParam(r, "cid"))
	if err != nil {
		http.Error(w, fmt.Sprintf("%v: %v", interfaces.ErrInvalidCID, err), http.StatusBadRequest)
		return
	}

	path := "/ipfs/" + c.String()
	if rest := strings.Trim(chi.URLParam(r, "*"), "/"); rest != "" {
		path += "/" + rest
	}

	reader, err := res.Client.Cat(r.Context(), path)
	if err != nil {
		h.log.Warn("Failed to fetch content",
			slog.String("path", path),
			slog.String("provider", res.Provider.String()),
			"err", err)
		http.Error(w, "Failed to fetch content", http.StatusBadGateway)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Ipfs-Path", path)
	if _, err := io.Copy(w, reader); err != nil {
		h.log.Warn("Failed to stream content", slog.String("path", path), "err", err)
	}
}

// HandleProvider reports the client currently in use.
func (h *Handler) HandleProvider(w http.ResponseWriter, r *http.Request) {
	h.writeProvider(w, h.Current())
}

// HandleResolve re-runs discovery and reports the result.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	res, err := h.Resolve(r.Context())
	if err != nil && !errors.Is(err, interfaces.ErrNoProvider) {
		h.log.Error("Resolution failed", "err", err)
		if errors.Is(err, interfaces.ErrInvalidAPIAddress) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	h.writeProvider(w, res)
}

func (h *Handler) writeProvider(w http.ResponseWriter, res *provider.Result) {
	w.Header().Set("Content-Type", "application/json")
	if res == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"no provider"}`))
		return
	}

	if err := json.NewEncoder(w).Encode(ProviderResponse{
		Provider: res.Provider.String(),
		Address:  res.Address,
	}); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}
