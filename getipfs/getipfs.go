package getipfs

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/ruteri/getipfs/addrutil"
	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
	"github.com/ruteri/getipfs/metrics"
	"github.com/ruteri/getipfs/provider"
)

// Resolver finds a usable IPFS client by trying the discovery strategies in
// a fixed order: companion, injected client, HTTP API, in-process node.
type Resolver struct {
	// Root is the ambient environment inspected by the strategies.
	Root interfaces.Root

	// NewAPIClient builds HTTP API clients. Defaults to ipfsclient.NewHTTPClient.
	NewAPIClient provider.ClientConstructor

	// DNS expands /dnsaddr API addresses. Optional.
	DNS *addrutil.DNSAddrResolver

	// Metrics records attempts and outcomes. Optional.
	Metrics *metrics.Recorder

	Log *slog.Logger
}

// NewResolver creates a resolver over root with the default API client constructor.
func NewResolver(root interfaces.Root, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}

	return &Resolver{
		Root: root,
		NewAPIClient: func(address string, _ *url.URL) (interfaces.IPFSClient, error) {
			client, err := ipfsclient.NewHTTPClient(address, log)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Log: log,
	}
}

// GetIPFS returns the first usable client found with opts over root, or nil
// when no strategy produced one.
func GetIPFS(ctx context.Context, root interfaces.Root, opts *Options) (interfaces.IPFSClient, error) {
	return NewResolver(root, nil).GetIPFS(ctx, opts)
}

// GetIPFS returns the client of Resolve, or nil when none was found.
func (r *Resolver) GetIPFS(ctx context.Context, opts *Options) (interfaces.IPFSClient, error) {
	res, err := r.Resolve(ctx, opts)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Client, nil
}

// Resolve merges opts over DefaultConfig and runs the enabled strategies in
// order until one yields a client.
//
// Finding no client is not an error: Resolve returns (nil, nil). An error is
// returned only for an invalid APIAddress in strict mode, or when ctx is done
// before the next strategy starts.
func (r *Resolver) Resolve(ctx context.Context, opts *Options) (*provider.Result, error) {
	cfg := Merge(DefaultConfig(), opts)

	if cfg.APIAddress != "" {
		if cfg.StrictAPIAddress {
			if err := addrutil.CheckAPIAddress(cfg.APIAddress); err != nil {
				return nil, err
			}
		} else {
			cfg.APIAddress = addrutil.ValidateAPIAddress(cfg.APIAddress, r.logger())
		}
	}

	return r.run(ctx, r.Strategies(cfg))
}

// Strategies returns the strategies enabled by cfg in priority order.
func (r *Resolver) Strategies(cfg Config) []provider.Strategy {
	log := r.logger()

	var strategies []provider.Strategy
	if cfg.TryCompanion {
		strategies = append(strategies, &provider.Companion{
			Root: r.Root,
			Test: cfg.ConnectionTest,
			Log:  log,
		})
	}
	if cfg.TryWindow {
		strategies = append(strategies, &provider.Window{
			Root:     r.Root,
			Commands: cfg.WindowCommands,
			Test:     cfg.ConnectionTest,
			Log:      log,
		})
	}
	if cfg.TryAPI {
		var location *url.URL
		if r.Root != nil {
			location = r.Root.Location()
		}
		strategies = append(strategies, &provider.API{
			APIAddress:        cfg.APIAddress,
			DefaultAPIAddress: cfg.DefaultAPIAddress,
			Location:          location,
			NewClient:         r.NewAPIClient,
			DNS:               r.DNS,
			Test:              cfg.ConnectionTest,
			Log:               log,
		})
	}
	if cfg.TryInProcess {
		strategies = append(strategies, &provider.InProcess{
			Options: cfg.InProcessOptions,
			Factory: cfg.InProcessFactory,
			Test:    cfg.ConnectionTest,
			Log:     log,
		})
	}
	return strategies
}

func (r *Resolver) run(ctx context.Context, strategies []provider.Strategy) (*provider.Result, error) {
	start := time.Now()
	log := r.logger()

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if res := r.attempt(ctx, s); res != nil {
			r.Metrics.ObserveResolution(res.Provider.String())
			log.Info("Found IPFS provider",
				slog.String("provider", res.Provider.String()),
				slog.String("address", res.Address),
				slog.Duration("duration", time.Since(start)))
			return res, nil
		}
	}

	r.Metrics.ObserveResolution(metrics.ProviderNone)
	log.Info("No IPFS provider available",
		slog.Int("attempted", len(strategies)),
		slog.Duration("duration", time.Since(start)))
	return nil, nil
}

// attempt runs a single strategy, treating a panic as an unavailable provider.
func (r *Resolver) attempt(ctx context.Context, s provider.Strategy) (res *provider.Result) {
	start := time.Now()
	outcome := metrics.OutcomeUnavailable

	defer func() {
		if p := recover(); p != nil {
			r.logger().Error("Provider strategy panicked",
				slog.String("provider", s.Name().String()),
				"panic", p)
			res = nil
			outcome = metrics.OutcomePanic
		}
		r.Metrics.ObserveAttempt(s.Name().String(), outcome, time.Since(start))
	}()

	res = s.Attempt(ctx)
	if res != nil && res.Client == nil {
		res = nil
	}
	if res != nil {
		outcome = metrics.OutcomeSuccess
	}
	return res
}

func (r *Resolver) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}
