package provider

import (
	"context"
	"log/slog"

	"github.com/ruteri/getipfs/interfaces"
)

// InProcess starts an in-process node through a caller supplied factory.
// The factory is only invoked when the strategy runs.
type InProcess struct {
	Options map[string]any
	Factory interfaces.NodeFactory
	Test    interfaces.ConnectionTest
	Log     *slog.Logger
}

// Name returns interfaces.ProviderInProcess.
func (s *InProcess) Name() interfaces.ProviderName {
	return interfaces.ProviderInProcess
}

// Attempt starts a node through Factory and returns it if it passes the connection test.
func (s *InProcess) Attempt(ctx context.Context) *Result {
	log := loggerOrDefault(s.Log).With("provider", s.Name().String())

	if s.Factory == nil {
		log.Debug("Failed to initialise in-process node", "err", interfaces.ErrNoFactory)
		return nil
	}

	client, err := s.Factory(ctx, s.Options)
	if err != nil {
		log.Info("Failed to initialise in-process node", "err", err)
		return nil
	}
	if client == nil {
		log.Info("In-process node factory returned no client")
		return nil
	}

	if err := validate(ctx, s.Test, client); err != nil {
		log.Info("In-process node failed connection test", "err", err)
		return nil
	}

	return &Result{Client: client, Provider: s.Name()}
}
