package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/ruteri/getipfs/cmd/flags"
	"github.com/ruteri/getipfs/common"
	"github.com/ruteri/getipfs/httpserver"
	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
	"github.com/ruteri/getipfs/metrics"
	"github.com/ruteri/getipfs/provider"
	"github.com/urfave/cli/v2"
)

// resolveOutput is printed by the resolve command.
type resolveOutput struct {
	Provider string `json:"provider"`
	Address  string `json:"address,omitempty"`
	Version  string `json:"version,omitempty"`
}

func main() {
	app := &cli.App{
		Name:    common.PackageName,
		Usage:   "Discover a usable IPFS client and talk to it",
		Version: common.Version,
		Flags:   append(append([]cli.Flag{}, flags.LogFlags...), flags.DiscoveryFlags...),
		Commands: []*cli.Command{
			{
				Name:   "resolve",
				Usage:  "Run provider discovery and print the winning provider",
				Action: resolveCmd,
			},
			{
				Name:      "cat",
				Usage:     "Print the content at an IPFS path",
				ArgsUsage: "<path>",
				Action:    catCmd,
			},
			{
				Name:      "ls",
				Usage:     "List the links of an IPFS directory",
				ArgsUsage: "<path>",
				Action:    lsCmd,
			},
			{
				Name:      "add",
				Usage:     "Add a file (or stdin) and print its CID",
				ArgsUsage: "[<file>]",
				Action:    addCmd,
			},
			{
				Name:   "serve",
				Usage:  "Serve a read-only gateway over the discovered client",
				Flags:  flags.ServerFlags,
				Action: serveCmd,
			},
		},
	}

	// Interrupts cancel discovery in progress; serve handles them itself once running.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// discover runs provider discovery with the options given on the command line.
func discover(cCtx *cli.Context) (*provider.Result, error) {
	logger := flags.SetupLogger(cCtx)

	opts, err := flags.DiscoveryOptions(cCtx)
	if err != nil {
		logger.Error("Invalid discovery options", "err", err)
		return nil, err
	}

	resolver, err := flags.NewResolver(cCtx, logger, nil)
	if err != nil {
		logger.Error("Failed to create resolver", "err", err)
		return nil, err
	}

	res, err := resolver.Resolve(cCtx.Context, opts)
	if err != nil {
		logger.Error("Provider discovery failed", "err", err)
		return nil, err
	}
	if res == nil {
		return nil, interfaces.ErrNoProvider
	}
	return res, nil
}

func resolveCmd(cCtx *cli.Context) error {
	res, err := discover(cCtx)
	if err != nil {
		return err
	}

	out := resolveOutput{
		Provider: res.Provider.String(),
		Address:  res.Address,
	}
	if httpClient, ok := res.Client.(*ipfsclient.HTTPClient); ok {
		if version, err := httpClient.Version(cCtx.Context); err == nil {
			out.Version = version
		}
	}

	enc := json.NewEncoder(cCtx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func catCmd(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return cli.Exit("expected exactly one <path> argument", 2)
	}

	res, err := discover(cCtx)
	if err != nil {
		return err
	}
	return catContent(cCtx.Context, res.Client, cCtx.Args().First(), cCtx.App.Writer)
}

func lsCmd(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return cli.Exit("expected exactly one <path> argument", 2)
	}

	res, err := discover(cCtx)
	if err != nil {
		return err
	}
	return listLinks(cCtx.Context, res.Client, cCtx.Args().First(), cCtx.App.Writer)
}

func addCmd(cCtx *cli.Context) error {
	if cCtx.NArg() > 1 {
		return cli.Exit("expected at most one <file> argument", 2)
	}

	var r io.Reader = os.Stdin
	if file := cCtx.Args().First(); file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	res, err := discover(cCtx)
	if err != nil {
		return err
	}
	return addContent(cCtx.Context, res.Client, r, cCtx.App.Writer)
}

func catContent(ctx context.Context, client interfaces.IPFSClient, path string, w io.Writer) error {
	r, err := client.Cat(ctx, path)
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = io.Copy(w, r)
	return err
}

func listLinks(ctx context.Context, client interfaces.IPFSClient, path string, w io.Writer) error {
	links, err := client.Ls(ctx, path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, link := range links {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", link.Hash, link.Size, link.Name)
	}
	return tw.Flush()
}

// addContent stores r and prints the resulting CID.
func addContent(ctx context.Context, client interfaces.IPFSClient, r io.Reader, w io.Writer) error {
	cid, err := client.Add(ctx, r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, cid)
	return err
}

// resolveAtStartup runs the first resolution of the gateway. The gateway
// starts even when no provider is reachable yet; POST /api/resolve retries.
func resolveAtStartup(ctx context.Context, handler *httpserver.Handler, logger *slog.Logger) error {
	res, err := handler.Resolve(ctx)
	if err != nil {
		logger.Warn("No IPFS provider available at startup", "err", err)
		return err
	}
	logger.Info("Using IPFS provider", "provider", res.Provider, "address", res.Address)
	return nil
}

func serveCmd(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	opts, err := flags.DiscoveryOptions(cCtx)
	if err != nil {
		logger.Error("Invalid discovery options", "err", err)
		return err
	}

	recorder := metrics.NewRecorder(common.PackageName)
	resolver, err := flags.NewResolver(cCtx, logger, recorder)
	if err != nil {
		logger.Error("Failed to create resolver", "err", err)
		return err
	}

	handler := httpserver.NewHandler(resolver, opts, logger)

	if err := resolveAtStartup(cCtx.Context, handler, logger); err != nil && cCtx.Context.Err() != nil {
		return err
	}

	cfg := flags.ConfigureServer(cCtx, logger, recorder)
	server, err := httpserver.New(cfg, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	logger.Info("Starting server")
	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")
	return nil
}
