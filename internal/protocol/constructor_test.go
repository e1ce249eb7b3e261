package protocol

import (
	"errors"
	"strings"
	"testing"
)

func testIdentity() ClientIdentity {
	return ClientIdentity{
		ID:      "Test-Name",
		Name:    "Test Client",
		Port:    3003,
		Product: "Test-App",
		Version: "1.2.3",
	}
}

func TestDiscoveryProbe(t *testing.T) {
	if got := string(DiscoveryProbe()); got != "M-SEARCH * HTTP/1.1" {
		t.Errorf("DiscoveryProbe() = %q, want %q", got, "M-SEARCH * HTTP/1.1")
	}
}

func TestEncodeRegister(t *testing.T) {
	want := "HELLO * HTTP/1.1\n" +
		"Content-Type: plex/media-player\n" +
		"Resource-Identifier: Test-Name\n" +
		"Name: Test Client\n" +
		"Port: 3003\n" +
		"Product: Test-App\n" +
		"Version: 1.2.3"

	if got := string(EncodeRegister(testIdentity())); got != want {
		t.Errorf("EncodeRegister() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeDeregister(t *testing.T) {
	got := string(EncodeDeregister(testIdentity()))

	if !strings.HasPrefix(got, "BYE * HTTP/1.1\n") {
		t.Errorf("EncodeDeregister() header = %q, want BYE header", strings.SplitN(got, "\n", 2)[0])
	}

	hello := string(EncodeRegister(testIdentity()))
	if strings.TrimPrefix(got, DeregisterHeader) != strings.TrimPrefix(hello, RegisterHeader) {
		t.Error("EncodeDeregister() payload differs from EncodeRegister() payload")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		identity ClientIdentity
	}{
		{name: "basic", identity: testIdentity()},
		{
			name: "uuid and spaces",
			identity: ClientIdentity{
				ID:      "6f1b2a3c-4d5e-4f60-8a9b-0c1d2e3f4a5b",
				Name:    "Living Room TV",
				Port:    32500,
				Product: "Plex for Go",
				Version: "2.0.0-beta",
			},
		},
		{
			name: "colon in name",
			identity: ClientIdentity{
				ID:      "abc",
				Name:    "Den: upstairs",
				Port:    1,
				Product: "p",
				Version: "v",
			},
		},
		{
			name:     "max port",
			identity: ClientIdentity{ID: "x", Name: "y", Port: 65535, Product: "z", Version: "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, encoded := range [][]byte{EncodeRegister(tt.identity), EncodeDeregister(tt.identity)} {
				a, err := DecodeAnnouncement(encoded)
				if err != nil {
					t.Fatalf("DecodeAnnouncement() error = %v", err)
				}
				if a.Identity != tt.identity {
					t.Errorf("DecodeAnnouncement() identity = %+v, want %+v", a.Identity, tt.identity)
				}
				if a.ContentType != PlayerContentType {
					t.Errorf("ContentType = %q, want %q", a.ContentType, PlayerContentType)
				}
			}
		})
	}
}

func TestClientIdentity_Validate(t *testing.T) {
	if err := testIdentity().Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	err := ClientIdentity{Name: "no id"}.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want error for empty ID")
	}
	if !errors.Is(err, ErrIdentityNotSet) {
		t.Errorf("Validate() error = %v, want ErrIdentityNotSet", err)
	}
}
