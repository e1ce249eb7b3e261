package registration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/plexgdm/internal/protocol"
	"github.com/muurk/plexgdm/internal/transport/transporttest"
)

var testIdentity = protocol.ClientIdentity{
	ID:      "Test-Name",
	Name:    "Test Client",
	Port:    3003,
	Product: "Test-App",
	Version: "1.2.3",
}

func TestAnnouncer_Register(t *testing.T) {
	fake := &transporttest.Opener{}

	if err := NewAnnouncer(fake).Register(context.Background(), testIdentity); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	sent := fake.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d datagrams, want 1", len(sent))
	}
	if sent[0].Addr.String() != "239.0.0.250:32413" {
		t.Errorf("HELLO sent to %v, want 239.0.0.250:32413", sent[0].Addr)
	}
	if string(sent[0].Data) != string(protocol.EncodeRegister(testIdentity)) {
		t.Errorf("HELLO payload = %q", sent[0].Data)
	}
	if ttls := fake.TTLs(); len(ttls) != 1 || ttls[0] != RegistrationTTL {
		t.Errorf("TTLs = %v, want [%d]", ttls, RegistrationTTL)
	}
	if !fake.Balanced() {
		t.Error("socket was not closed")
	}
}

func TestAnnouncer_Deregister(t *testing.T) {
	fake := &transporttest.Opener{}

	if err := NewAnnouncer(fake).Deregister(context.Background(), testIdentity); err != nil {
		t.Fatalf("Deregister() error = %v", err)
	}

	sent := fake.SentTo(protocol.RegistrationPort)
	if len(sent) != 1 || !strings.HasPrefix(sent[0], "BYE * HTTP/1.1\n") {
		t.Errorf("sent = %q, want one BYE", sent)
	}
}

func TestAnnouncer_IdentityNotSet(t *testing.T) {
	fake := &transporttest.Opener{}

	err := NewAnnouncer(fake).Register(context.Background(), protocol.ClientIdentity{})
	if !errors.Is(err, protocol.ErrIdentityNotSet) {
		t.Fatalf("Register() error = %v, want ErrIdentityNotSet", err)
	}
	if len(fake.TTLs()) != 0 {
		t.Error("no socket should be opened without an identity")
	}
}

func TestAnnouncer_TransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		opener *transporttest.Opener
	}{
		{name: "open fails", opener: &transporttest.Opener{OpenErr: errors.New("EMFILE")}},
		{name: "send fails", opener: &transporttest.Opener{WriteErr: errors.New("ENETUNREACH")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewAnnouncer(tt.opener).Register(context.Background(), testIdentity); err == nil {
				t.Error("Register() error = nil, want transport error")
			}
			if !tt.opener.Balanced() {
				t.Error("socket was not closed")
			}
		})
	}
}

func TestAnnouncer_Canceled(t *testing.T) {
	fake := &transporttest.Opener{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewAnnouncer(fake).Register(ctx, testIdentity); !errors.Is(err, context.Canceled) {
		t.Errorf("Register() error = %v, want context.Canceled", err)
	}
	if len(fake.Sent()) != 0 {
		t.Error("nothing should be sent after cancellation")
	}
}
