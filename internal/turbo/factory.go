package turbo

import (
	"sync"

	"github.com/ardriveapp/turbo-cli/internal/config"
)

// Creator builds a payment service client for a configuration. It exists
// so tests can inject clients pointed at local servers.
type Creator func(cfg *config.Config) (*Client, error)

// DefaultCreator builds a client from the configured network endpoints.
func DefaultCreator(cfg *config.Config) (*Client, error) {
	return NewClient(cfg.GetPaymentURL(), &ClientOptions{
		GatewayURL: cfg.GetGatewayURL(),
	})
}

// Factory memoizes payment service clients by configuration fingerprint.
// Switching network profiles mid-session yields a fresh client; asking
// twice for the same endpoints yields the same one.
type Factory struct {
	mu      sync.Mutex
	creator Creator
	clients map[string]*Client
}

// NewFactory creates a factory using the given creator, or DefaultCreator
// when nil.
func NewFactory(creator Creator) *Factory {
	if creator == nil {
		creator = DefaultCreator
	}
	return &Factory{
		creator: creator,
		clients: make(map[string]*Client),
	}
}

// ClientFor returns the memoized client for the configuration, creating it
// on first use.
func (f *Factory) ClientFor(cfg *config.Config) (*Client, error) {
	key := cfg.ConfigKey()

	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[key]; ok {
		return c, nil
	}

	c, err := f.creator(cfg)
	if err != nil {
		return nil, err
	}
	f.clients[key] = c
	return c, nil
}

// Invalidate drops the memoized client for the configuration.
func (f *Factory) Invalidate(cfg *config.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, cfg.ConfigKey())
}

// Size returns the number of memoized clients.
func (f *Factory) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
