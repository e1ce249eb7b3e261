package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/muurk/plexgdm/internal/discovery"
	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/registration"
	"github.com/muurk/plexgdm/internal/scheduler"
	"github.com/muurk/plexgdm/internal/transport"
	"go.uber.org/zap"
)

const (
	// DefaultDiscoveryInterval is the number of ticks between discovery cycles
	DefaultDiscoveryInterval = 120

	// DefaultRegistrationInterval is the number of ticks between HELLOs
	DefaultRegistrationInterval = 5
)

// ErrIdentityAlreadySet is returned when a different identity is set on an
// engine that already has one.
var ErrIdentityAlreadySet = errors.New("client identity already set")

// Config holds the engine configuration. Zero values select defaults.
type Config struct {
	// Transport opens GDM sockets (default: real UDP sockets)
	Transport transport.Opener

	// HTTP fetches /clients for CheckRegistration
	HTTP registration.Getter

	DiscoveryInterval    int
	RegistrationInterval int

	// Tick is the loop tick period (default: one second)
	Tick time.Duration
}

// Engine runs GDM discovery and registration.
type Engine struct {
	discoverer *discovery.Discoverer
	announcer  *registration.Announcer
	verifier   *registration.Verifier

	discoveryLoop    *scheduler.Loop
	registrationLoop *scheduler.Loop

	mu                sync.RWMutex
	identity          *protocol.ClientIdentity
	servers           []protocol.ServerRecord
	discoveryComplete bool
	registered        bool
}

// New creates a stopped Engine.
func New(config Config) *Engine {
	opener := config.Transport
	if opener == nil {
		opener = transport.NewUDPOpener()
	}
	getter := config.HTTP
	if getter == nil {
		getter = registration.NewHTTPGetter(registration.DefaultHTTPTimeout)
	}
	discoveryInterval := config.DiscoveryInterval
	if discoveryInterval <= 0 {
		discoveryInterval = DefaultDiscoveryInterval
	}
	registrationInterval := config.RegistrationInterval
	if registrationInterval <= 0 {
		registrationInterval = DefaultRegistrationInterval
	}

	e := &Engine{
		discoverer: discovery.NewDiscoverer(opener),
		announcer:  registration.NewAnnouncer(opener),
		verifier:   registration.NewVerifier(getter),
		servers:    make([]protocol.ServerRecord, 0),
	}

	e.discoveryLoop = scheduler.NewLoop("discovery", discoveryInterval, e.runDiscovery)
	e.registrationLoop = scheduler.NewLoop("registration", registrationInterval, func(ctx context.Context) {
		e.Register(ctx)
	})
	if config.Tick > 0 {
		e.discoveryLoop.SetTick(config.Tick)
		e.registrationLoop.SetTick(config.Tick)
	}

	return e
}

// SetClientDetails sets the identity announced to servers. The identity is
// fixed once set; setting an identical identity again is accepted.
func (e *Engine) SetClientDetails(identity protocol.ClientIdentity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.identity != nil {
		if *e.identity == identity {
			return nil
		}
		return ErrIdentityAlreadySet
	}

	e.identity = &identity
	logging.Info("Client details set",
		zap.String("client_id", identity.ID),
		zap.String("name", identity.Name),
	)
	return nil
}

// ClientDetails returns the identity and whether one has been set.
func (e *Engine) ClientDetails() (protocol.ClientIdentity, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.identity == nil {
		logging.Debug("Client data has not been initialised")
		return protocol.ClientIdentity{}, false
	}
	return *e.identity, true
}

// Servers returns a copy of the servers found by the last discovery cycle.
func (e *Engine) Servers() []protocol.ServerRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]protocol.ServerRecord, len(e.servers))
	copy(out, e.servers)
	return out
}

// DiscoveryComplete reports whether at least one discovery cycle finished.
func (e *Engine) DiscoveryComplete() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.discoveryComplete
}

// Registered reports whether the last HELLO was sent successfully.
func (e *Engine) Registered() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registered
}

// SetInterval sets the number of ticks between discovery cycles.
func (e *Engine) SetInterval(interval int) {
	e.discoveryLoop.SetInterval(interval)
}

// SetRegistrationInterval sets the number of ticks between HELLOs.
func (e *Engine) SetRegistrationInterval(interval int) {
	e.registrationLoop.SetInterval(interval)
}

func (e *Engine) setRegistered(registered bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registered = registered
}
