package protocol

import (
	"errors"
	"fmt"
)

// ErrIdentityNotSet is returned when an operation needs a client identity
// and none has been configured.
var ErrIdentityNotSet = errors.New("client identity has not been set")

// ClientIdentity describes the player announced to media servers.
type ClientIdentity struct {
	// ID is the Resource-Identifier servers list the player under
	ID string `yaml:"id"`

	// Name is the human readable player name
	Name string `yaml:"name"`

	// Port is the player's HTTP control port
	Port uint16 `yaml:"port"`

	Product string `yaml:"product"`
	Version string `yaml:"version"`
}

// Validate checks that the identity can be announced.
func (c ClientIdentity) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("invalid client identity: %w", ErrIdentityNotSet)
	}
	return nil
}

// String returns a short description of the identity
func (c ClientIdentity) String() string {
	return fmt.Sprintf("%s (%s) port %d", c.Name, c.ID, c.Port)
}
