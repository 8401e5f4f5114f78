package flags

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/getipfs/addrutil"
	"github.com/ruteri/getipfs/ambient"
	"github.com/ruteri/getipfs/common"
	"github.com/ruteri/getipfs/getipfs"
	"github.com/ruteri/getipfs/httpserver"
	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
	"github.com/ruteri/getipfs/metrics"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// DiscoveryOptions maps the discovery flags onto getipfs.Options.
// Flags left at their defaults are not set, so the library defaults apply.
func DiscoveryOptions(cCtx *cli.Context) (*getipfs.Options, error) {
	opts := &getipfs.Options{}

	if cCtx.IsSet(TryCompanionFlag.Name) {
		opts.TryCompanion = getipfs.Bool(cCtx.Bool(TryCompanionFlag.Name))
	}
	if cCtx.IsSet(TryWindowFlag.Name) {
		opts.TryWindow = getipfs.Bool(cCtx.Bool(TryWindowFlag.Name))
	}
	if cCtx.IsSet(TryApiFlag.Name) {
		opts.TryAPI = getipfs.Bool(cCtx.Bool(TryApiFlag.Name))
	}
	if cCtx.IsSet(ApiAddressFlag.Name) {
		opts.APIAddress = getipfs.String(cCtx.String(ApiAddressFlag.Name))
	}
	if cCtx.IsSet(DefaultApiAddressFlag.Name) {
		opts.DefaultAPIAddress = getipfs.String(cCtx.String(DefaultApiAddressFlag.Name))
	}
	if cCtx.IsSet(StrictApiAddressFlag.Name) {
		opts.StrictAPIAddress = getipfs.Bool(cCtx.Bool(StrictApiAddressFlag.Name))
	}

	if cCtx.IsSet(ProbeCidFlag.Name) || cCtx.IsSet(ProbeTimeoutFlag.Name) {
		test, err := ipfsclient.NewConnectionTest(cCtx.String(ProbeCidFlag.Name), cCtx.Duration(ProbeTimeoutFlag.Name))
		if err != nil {
			return nil, err
		}
		opts.ConnectionTest = test
	}

	return opts, nil
}

// NewResolver creates a resolver over the process environment.
func NewResolver(cCtx *cli.Context, log *slog.Logger, recorder *metrics.Recorder) (*getipfs.Resolver, error) {
	var root interfaces.Root = ambient.NewEnvRoot(log)
	if location := cCtx.String(LocationFlag.Name); location != "" {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid location: %w", err)
		}
		root = ambient.WithLocation(root, u)
	}

	resolver := getipfs.NewResolver(root, log)
	resolver.DNS = addrutil.NewDNSAddrResolver(cCtx.String(DnsServerFlag.Name), cCtx.Duration(ProbeTimeoutFlag.Name), log)
	resolver.Metrics = recorder
	return resolver, nil
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, recorder *metrics.Recorder) *httpserver.HTTPServerConfig {
	listenAddr := cCtx.String(ListenAddrFlag.Name)
	metricsAddr := cCtx.String(MetricsAddrFlag.Name)
	enablePprof := cCtx.Bool(PprofFlag.Name)
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &httpserver.HTTPServerConfig{
		ListenAddr:               listenAddr,
		MetricsAddr:              metricsAddr,
		Log:                      logger,
		Metrics:                  recorder,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var TryCompanionFlag = &cli.BoolFlag{
	Name:  "try-companion",
	Value: true,
	Usage: "use the daemon announced in the local IPFS repository",
}
var TryWindowFlag = &cli.BoolFlag{
	Name:  "try-window",
	Value: true,
	Usage: "use the client injected through $" + ambient.EnvInjectedAPI,
}
var TryApiFlag = &cli.BoolFlag{
	Name:  "try-api",
	Value: true,
	Usage: "connect to an IPFS HTTP API endpoint",
}
var ApiAddressFlag = &cli.StringFlag{
	Name:    "api-address",
	EnvVars: []string{"GETIPFS_API_ADDRESS"},
	Usage:   "explicit IPFS API multiaddr, the only address tried when set",
}
var DefaultApiAddressFlag = &cli.StringFlag{
	Name:  "default-api-address",
	Value: getipfs.DefaultAPIAddress,
	Usage: "IPFS API multiaddr tried when no explicit address is set",
}
var StrictApiAddressFlag = &cli.BoolFlag{
	Name:  "strict-api-address",
	Value: false,
	Usage: "fail instead of falling back when --api-address is invalid",
}
var LocationFlag = &cli.StringFlag{
	Name:    "location",
	EnvVars: []string{ambient.EnvLocation},
	Usage:   "location the host is served from, tried as API origin",
}
var ProbeCidFlag = &cli.StringFlag{
	Name:  "probe-cid",
	Value: ipfsclient.EmptyDirCID,
	Usage: "directory CID listed to check that a client is reachable",
}
var ProbeTimeoutFlag = &cli.DurationFlag{
	Name:  "probe-timeout",
	Value: ipfsclient.DefaultProbeTimeout,
	Usage: "timeout of a single connection test",
}
var DnsServerFlag = &cli.StringFlag{
	Name:  "dns-server",
	Usage: "nameserver (host:port) used to resolve /dnsaddr API addresses, defaults to /etc/resolv.conf",
}

var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for the gateway",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: "getipfs",
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var LogFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}

var DiscoveryFlags = []cli.Flag{
	TryCompanionFlag,
	TryWindowFlag,
	TryApiFlag,
	ApiAddressFlag,
	DefaultApiAddressFlag,
	StrictApiAddressFlag,
	LocationFlag,
	ProbeCidFlag,
	ProbeTimeoutFlag,
	DnsServerFlag,
}

var ServerFlags = []cli.Flag{
	ListenAddrFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}
