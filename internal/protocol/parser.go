package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// statusOK marks a positive reply. Replies without it carry no usable fields.
const statusOK = "200 OK"

// serverFields maps reply keys to the record field they populate. Order
// matters: a line is assigned to the first key it starts with.
var serverFields = []struct {
	prefix string
	set    func(*ServerRecord, string)
}{
	{KeyContentType + ":", func(r *ServerRecord, v string) { r.ContentType = v }},
	{KeyResourceIdentifier + ":", func(r *ServerRecord, v string) { r.ResourceIdentifier = v }},
	{KeyName + ":", func(r *ServerRecord, v string) { r.Name = v }},
	{KeyPort + ":", func(r *ServerRecord, v string) { r.Port = v }},
	{KeyUpdatedAt + ":", func(r *ServerRecord, v string) { r.UpdatedAt = v }},
	{KeyVersion + ":", func(r *ServerRecord, v string) { r.Version = v }},
}

// DecodeServerResponse parses a reply to the discovery probe received from
// source. It never fails: malformed input produces a partially populated
// record, and a reply without "200 OK" produces a record with only Address.
func DecodeServerResponse(raw []byte, source string) ServerRecord {
	record := ServerRecord{Address: source}

	text := string(raw)
	if !strings.Contains(text, statusOK) {
		return record
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, f := range serverFields {
			if strings.HasPrefix(line, f.prefix) {
				f.set(&record, value(line))
				break
			}
		}
	}

	return record
}

// value returns everything after the first colon, trimmed.
func value(line string) string {
	_, v, _ := strings.Cut(line, ":")
	return strings.TrimSpace(v)
}

// AnnouncementKind distinguishes HELLO from BYE
type AnnouncementKind int

const (
	KindHello AnnouncementKind = iota
	KindBye
)

// String returns the header verb for the kind
func (k AnnouncementKind) String() string {
	switch k {
	case KindHello:
		return "HELLO"
	case KindBye:
		return "BYE"
	default:
		return fmt.Sprintf("AnnouncementKind(%d)", k)
	}
}

// Announcement is a decoded HELLO or BYE datagram as seen by a peer.
type Announcement struct {
	Kind        AnnouncementKind
	ContentType string
	Identity    ClientIdentity
}

// DecodeAnnouncement parses a HELLO or BYE datagram sent by a player.
// Unlike DecodeServerResponse it rejects input it does not understand.
func DecodeAnnouncement(raw []byte) (Announcement, error) {
	var a Announcement

	lines := strings.Split(string(raw), "\n")
	switch strings.TrimSpace(lines[0]) {
	case RegisterHeader:
		a.Kind = KindHello
	case DeregisterHeader:
		a.Kind = KindBye
	default:
		return a, fmt.Errorf("unknown announcement header: %q", strings.TrimSpace(lines[0]))
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		key, _, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		v := value(line)

		switch key {
		case KeyContentType:
			a.ContentType = v
		case KeyResourceIdentifier:
			a.Identity.ID = v
		case KeyName:
			a.Identity.Name = v
		case KeyPort:
			port, err := strconv.ParseUint(v, 10, 16)
			if err != nil {
				return a, fmt.Errorf("invalid port %q: %w", v, err)
			}
			a.Identity.Port = uint16(port)
		case KeyProduct:
			a.Identity.Product = v
		case KeyVersion:
			a.Identity.Version = v
		}
	}

	return a, nil
}
