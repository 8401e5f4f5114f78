package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
)

// Result holds the client a strategy produced. A nil *Result means the
// strategy found nothing usable.
type Result struct {
	Client   interfaces.IPFSClient
	Provider interfaces.ProviderName

	// Address is the API address the client is bound to, when known.
	Address string
}

// Strategy is a single discovery attempt.
// Attempt must absorb its own errors and return nil when unavailable.
type Strategy interface {
	Name() interfaces.ProviderName
	Attempt(ctx context.Context) *Result
}

// lookupClient reads an IPFS client from the root object.
func lookupClient(root interfaces.Root, path string) (any, error) {
	if root == nil {
		return nil, errors.New("no root object")
	}
	v, ok := root.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("nothing found under %q", path)
	}
	return v, nil
}

func asClient(v any, path string) (interfaces.IPFSClient, error) {
	client, ok := v.(interfaces.IPFSClient)
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %T", interfaces.ErrNotAClient, path, v)
	}
	return client, nil
}

// validate runs the connection test. A nil test falls back to
// ipfsclient.DefaultConnectionTest.
func validate(ctx context.Context, test interfaces.ConnectionTest, client interfaces.IPFSClient) error {
	if test == nil {
		test = ipfsclient.DefaultConnectionTest()
	}
	return test(ctx, client)
}

func loggerOrDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
