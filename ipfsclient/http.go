package ipfsclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/ruteri/getipfs/addrutil"
	"github.com/ruteri/getipfs/interfaces"
)

// HTTPClient implements interfaces.IPFSClient over the IPFS HTTP API.
type HTTPClient struct {
	shell   *shell.Shell
	address string
	baseURL string
	log     *slog.Logger
}

// NewHTTPClient creates a client bound to an API address.
// The address may be a multiaddr (/ip4/127.0.0.1/tcp/5001) or an http(s) URL.
func NewHTTPClient(address string, log *slog.Logger) (*HTTPClient, error) {
	if log == nil {
		log = slog.Default()
	}

	baseURL, err := addrutil.ToURL(address)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		shell:   shell.NewShell(baseURL),
		address: address,
		baseURL: baseURL,
		log:     log,
	}, nil
}

// NewLocalClient creates a client for the daemon announced in the api file of
// the local IPFS repository ($IPFS_PATH, or ~/.ipfs).
func NewLocalClient(log *slog.Logger) (*HTTPClient, error) {
	address, err := LocalAPIAddress()
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(address, log)
}

// LocalAPIAddress reads the API multiaddr a running daemon writes to its repository.
func LocalAPIAddress() (string, error) {
	repo := os.Getenv("IPFS_PATH")
	if repo == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate IPFS repository: %w", err)
		}
		repo = filepath.Join(home, ".ipfs")
	}

	data, err := os.ReadFile(filepath.Join(repo, "api"))
	if err != nil {
		return "", fmt.Errorf("no local IPFS API announced: %w", err)
	}

	address := strings.TrimSpace(string(data))
	if address == "" {
		return "", errors.New("no local IPFS API announced: empty api file")
	}
	return address, nil
}

// Cat streams the content at path. The caller must close the reader.
func (c *HTTPClient) Cat(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := c.shell.Request("cat", path).Send(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to cat %s: %w", path, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("failed to cat %s: %w", path, resp.Error)
	}
	return resp.Output, nil
}

// Ls lists the links of the directory at path.
func (c *HTTPClient) Ls(ctx context.Context, path string) ([]interfaces.Link, error) {
	start := time.Now()

	var out struct{ Objects []shell.LsObject }
	if err := c.shell.Request("ls", path).Exec(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	if len(out.Objects) != 1 {
		return nil, fmt.Errorf("failed to list %s: unexpected response with %d objects", path, len(out.Objects))
	}

	links := make([]interfaces.Link, 0, len(out.Objects[0].Links))
	for _, l := range out.Objects[0].Links {
		links = append(links, interfaces.Link{
			Name: l.Name,
			Hash: l.Hash,
			Size: l.Size,
			Type: l.Type,
		})
	}

	c.log.Debug("Listed IPFS path",
		slog.String("path", path),
		slog.Int("links", len(links)),
		slog.Duration("duration", time.Since(start)))

	return links, nil
}

// Add stores data and returns its CID.
func (c *HTTPClient) Add(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cid, err := c.shell.Add(r)
	if err != nil {
		return "", fmt.Errorf("failed to add data to IPFS: %w", err)
	}

	c.log.Debug("Stored content in IPFS", slog.String("cid", cid))
	return cid, nil
}

// Version returns the daemon version.
func (c *HTTPClient) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string
		Commit  string
	}
	if err := c.shell.Request("version").Exec(ctx, &out); err != nil {
		return "", fmt.Errorf("failed to query IPFS version: %w", err)
	}
	return out.Version, nil
}

// Address returns the address the client was created with.
func (c *HTTPClient) Address() string {
	return c.address
}
