package engine

import (
	"context"
	"errors"

	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/transport"
	"go.uber.org/zap"
)

// Discover runs one discovery cycle and replaces the server list with its
// result, even when no server answered. The error is set only when no
// socket could be opened, in which case the list is left untouched. A cycle
// cut short by ctx is discarded.
func (e *Engine) Discover(ctx context.Context) error {
	result, err := e.discoverer.Discover(ctx)
	if err != nil {
		return err
	}
	if result.Status == transport.StatusCanceled {
		logging.Debug("Discovery cycle cancelled, keeping previous server list")
		return nil
	}

	e.mu.Lock()
	previous := len(e.servers)
	e.servers = result.Servers
	e.discoveryComplete = true
	e.mu.Unlock()

	if previous != len(result.Servers) {
		logging.Info("Server list changed",
			zap.Int("previous", previous),
			zap.Int("servers", len(result.Servers)),
		)
	}
	return nil
}

// runDiscovery lets a cycle in progress run to the end of its receive
// window when the loop stops, so Stop returns with the list replaced.
func (e *Engine) runDiscovery(ctx context.Context) {
	if err := e.Discover(context.WithoutCancel(ctx)); err != nil {
		logging.Error("Discovery failed", zap.Error(err))
	}
}

// Register sends one HELLO. Without client details it sends nothing and
// clears the registered flag.
func (e *Engine) Register(ctx context.Context) bool {
	identity, ok := e.ClientDetails()
	if !ok {
		logging.Debug("Registration skipped: client details not set")
		e.setRegistered(false)
		return false
	}

	if err := e.announcer.Register(ctx, identity); err != nil {
		if errors.Is(err, context.Canceled) {
			return e.Registered()
		}
		logging.Warn("Registration failed", zap.Error(err))
		e.setRegistered(false)
		return false
	}

	e.setRegistered(true)
	return true
}

// Deregister sends one BYE and clears the registered flag.
func (e *Engine) Deregister(ctx context.Context) {
	identity, ok := e.ClientDetails()
	if !ok {
		logging.Debug("Deregistration skipped: client details not set")
		e.setRegistered(false)
		return
	}

	if err := e.announcer.Deregister(ctx, identity); err != nil {
		logging.Warn("Deregistration failed", zap.Error(err))
	} else {
		logging.Info("Client deregistered", zap.String("client_id", identity.ID))
	}
	e.setRegistered(false)
}

// StartDiscovery starts the discovery loop. It is a no-op when running.
func (e *Engine) StartDiscovery() {
	e.discoveryLoop.Start()
}

// StopDiscovery stops the discovery loop and waits for it to exit. It is a
// no-op when not running.
func (e *Engine) StopDiscovery() {
	e.discoveryLoop.Stop()
}

// StartRegistration starts the registration loop. It is a no-op when
// running.
func (e *Engine) StartRegistration() {
	e.registrationLoop.Start()
}

// StopRegistration stops the registration loop, waits for it to exit and
// then sends one BYE. It is a no-op when not running.
func (e *Engine) StopRegistration() {
	if e.registrationLoop.Stop() {
		e.Deregister(context.Background())
	}
}

// StartAll starts both loops.
func (e *Engine) StartAll() {
	e.StartDiscovery()
	e.StartRegistration()
}

// StopAll stops both loops.
func (e *Engine) StopAll() {
	e.StopDiscovery()
	e.StopRegistration()
}

// CheckRegistration asks the first discovered server whether it lists this
// client. Only the first server is asked. It returns false until a HELLO has
// been sent and a discovery cycle has completed, and when the first server
// did not report its port.
func (e *Engine) CheckRegistration(ctx context.Context) bool {
	e.mu.RLock()
	ready := e.registered && e.discoveryComplete && e.identity != nil && len(e.servers) > 0
	var (
		server   protocol.ServerRecord
		clientID string
	)
	if ready {
		server = e.servers[0]
		clientID = e.identity.ID
	}
	e.mu.RUnlock()

	if !ready {
		return false
	}
	if server.Port == "" {
		logging.Debug("Registration check skipped: first server has no port",
			zap.String("addr", server.Address),
		)
		return false
	}
	return e.verifier.Check(ctx, clientID, server)
}
