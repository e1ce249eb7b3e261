package discovery

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/plexgdm/internal/logging"
	"github.com/muurk/plexgdm/internal/protocol"
	"go.uber.org/zap"
)

const (
	// ServiceType is the DNS-SD service Plex Media Server advertises
	ServiceType = "_plexmediasvr._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout bounds an mDNS browse
	DefaultScanTimeout = 3 * time.Second
)

// MDNSScanner finds media servers through DNS-SD. It is a fallback for
// networks that drop the GDM multicast group but still pass mDNS.
type MDNSScanner struct {
	// Timeout is the maximum time to browse
	Timeout time.Duration
}

// NewMDNSScanner creates a scanner with default settings
func NewMDNSScanner() *MDNSScanner {
	return &MDNSScanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for media servers until the timeout or ctx expires.
func (s *MDNSScanner) Scan(ctx context.Context) ([]protocol.ServerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := collectEntries(entries)

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return <-done, nil
}

// collectEntries gathers servers until entries is closed. zeroconf closes
// entries when the browse context ends, including after a failed Browse,
// so the result channel is buffered and the collector never outlives it.
func collectEntries(entries <-chan *zeroconf.ServiceEntry) <-chan []protocol.ServerRecord {
	done := make(chan []protocol.ServerRecord, 1)
	go func() {
		servers := make([]protocol.ServerRecord, 0)
		for entry := range entries {
			if record, ok := parseServiceEntry(entry); ok {
				logging.Debug("mDNS server found",
					zap.String("instance", entry.Instance),
					zap.String("addr", record.Address),
				)
				servers = append(servers, record)
			}
		}
		done <- servers
	}()
	return done
}

// parseServiceEntry converts a DNS-SD entry to a ServerRecord.
// Entries without an IPv4 address are skipped.
func parseServiceEntry(entry *zeroconf.ServiceEntry) (protocol.ServerRecord, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return protocol.ServerRecord{}, false
	}

	record := protocol.ServerRecord{
		Address: entry.AddrIPv4[0].String(),
		Name:    entry.Instance,
	}
	if entry.Port != 0 {
		record.Port = strconv.Itoa(entry.Port)
	}

	// TXT records are "key=value"; keys matching GDM reply fields fill them
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		switch key {
		case protocol.KeyContentType:
			record.ContentType = value
		case protocol.KeyResourceIdentifier:
			record.ResourceIdentifier = value
		case protocol.KeyUpdatedAt:
			record.UpdatedAt = value
		case protocol.KeyVersion:
			record.Version = value
		}
	}

	return record, true
}
