package ipfsclient

import (
	"context"
	"fmt"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/ruteri/getipfs/interfaces"
)

const (
	// EmptyDirCID is the empty unixfs directory, resolvable by any healthy node.
	EmptyDirCID = "QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn"

	// DefaultProbeTimeout bounds a single connection test.
	DefaultProbeTimeout = 10 * time.Second
)

// NewConnectionTest returns a probe that lists the directory identified by
// cidStr. A zero timeout leaves the deadline to the caller's context.
func NewConnectionTest(cidStr string, timeout time.Duration) (interfaces.ConnectionTest, error) {
	c, err := cid.Decode(cidStr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", interfaces.ErrInvalidCID, cidStr, err)
	}
	path := c.String()

	return func(ctx context.Context, client interfaces.IPFSClient) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		_, err := client.Ls(ctx, path)
		return err
	}, nil
}

// DefaultConnectionTest lists the empty directory with DefaultProbeTimeout.
func DefaultConnectionTest() interfaces.ConnectionTest {
	test, err := NewConnectionTest(EmptyDirCID, DefaultProbeTimeout)
	if err != nil {
		panic(err)
	}
	return test
}
