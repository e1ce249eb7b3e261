package protocol

import "fmt"

// ServerRecord is one media server's reply to a discovery probe.
// Address is always set; the remaining fields are only filled from a
// "200 OK" reply and are empty when the server did not send them.
type ServerRecord struct {
	// Address is the source IP of the reply (e.g., "192.168.1.50")
	Address string `json:"address"`

	ContentType        string `json:"content_type,omitempty"`
	ResourceIdentifier string `json:"resource_identifier,omitempty"`
	Name               string `json:"name,omitempty"`

	// Port is the server's HTTP port as sent, normally "32400"
	Port string `json:"port,omitempty"`

	UpdatedAt string `json:"updated_at,omitempty"`
	Version   string `json:"version,omitempty"`
}

// String returns a human-readable representation of the server
func (s ServerRecord) String() string {
	if s.Name == "" {
		return fmt.Sprintf("Plex server at %s", s.HostPort())
	}
	return fmt.Sprintf("Plex server %q at %s", s.Name, s.HostPort())
}

// HostPort returns "address:port", or just the address when no port was
// reported.
func (s ServerRecord) HostPort() string {
	if s.Port == "" {
		return s.Address
	}
	return s.Address + ":" + s.Port
}

// BaseURL returns the HTTP base URL for the server
func (s ServerRecord) BaseURL() string {
	return "http://" + s.HostPort()
}

// HasDetails reports whether any field beyond Address was populated.
func (s ServerRecord) HasDetails() bool {
	return s.ContentType != "" || s.ResourceIdentifier != "" || s.Name != "" ||
		s.Port != "" || s.UpdatedAt != "" || s.Version != ""
}
