package provider

import (
	"context"
	"log/slog"

	"github.com/ruteri/getipfs/interfaces"
)

// Window uses a client injected directly on the root object. Objects
// implementing interfaces.Enabler are asked for access first.
type Window struct {
	Root     interfaces.Root
	Commands []string
	Test     interfaces.ConnectionTest
	Log      *slog.Logger
}

// Name returns interfaces.ProviderWindow.
func (s *Window) Name() interfaces.ProviderName {
	return interfaces.ProviderWindow
}

// Attempt enables the injected client when required and returns it if it
// passes the connection test.
func (s *Window) Attempt(ctx context.Context) *Result {
	log := loggerOrDefault(s.Log).With("provider", s.Name().String())

	v, err := lookupClient(s.Root, interfaces.WindowPath)
	if err != nil {
		log.Debug("Injected client not present", "err", err)
		return nil
	}

	var client interfaces.IPFSClient
	if enabler, ok := v.(interfaces.Enabler); ok {
		client, err = enabler.Enable(ctx, s.Commands)
		if err != nil {
			log.Info("Injected client refused access", "err", err)
			return nil
		}
		if client == nil {
			log.Info("Injected client granted access without a client")
			return nil
		}
	} else {
		client, err = asClient(v, interfaces.WindowPath)
		if err != nil {
			log.Debug("Injected client rejected", "err", err)
			return nil
		}
	}

	if err := validate(ctx, s.Test, client); err != nil {
		log.Info("Injected client failed connection test", "err", err)
		return nil
	}

	return &Result{Client: client, Provider: s.Name(), Address: addressOf(client)}
}
