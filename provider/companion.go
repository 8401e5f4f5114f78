package provider

import (
	"context"
	"log/slog"

	"github.com/ruteri/getipfs/interfaces"
)

// Companion uses a client a companion made available on the root object.
type Companion struct {
	Root interfaces.Root
	Test interfaces.ConnectionTest
	Log  *slog.Logger
}

// Name returns interfaces.ProviderCompanion.
func (s *Companion) Name() interfaces.ProviderName {
	return interfaces.ProviderCompanion
}

// Attempt returns the companion client if it passes the connection test.
func (s *Companion) Attempt(ctx context.Context) *Result {
	log := loggerOrDefault(s.Log).With("provider", s.Name().String())

	v, err := lookupClient(s.Root, interfaces.CompanionPath)
	if err != nil {
		log.Debug("Companion client not present", "err", err)
		return nil
	}

	client, err := asClient(v, interfaces.CompanionPath)
	if err != nil {
		log.Debug("Companion client rejected", "err", err)
		return nil
	}

	if err := validate(ctx, s.Test, client); err != nil {
		log.Info("Companion client failed connection test", "err", err)
		return nil
	}

	return &Result{Client: client, Provider: s.Name(), Address: addressOf(client)}
}

// addressOf returns the API address of clients that expose one.
func addressOf(client interfaces.IPFSClient) string {
	if a, ok := client.(interface{ Address() string }); ok {
		return a.Address()
	}
	return ""
}
