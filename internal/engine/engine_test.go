package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

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

type stubGetter struct {
	mu   sync.Mutex
	body string
	err  error
	urls []string
}

func (s *stubGetter) Get(_ context.Context, url string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	return s.body, s.err
}

func newTestEngine(fake *transporttest.Opener, getter *stubGetter) *Engine {
	if getter == nil {
		getter = &stubGetter{}
	}
	return New(Config{
		Transport: fake,
		HTTP:      getter,
		Tick:      5 * time.Millisecond,
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

func TestEngine_SetClientDetails(t *testing.T) {
	e := newTestEngine(&transporttest.Opener{}, nil)

	if _, ok := e.ClientDetails(); ok {
		t.Error("ClientDetails() ok = true before SetClientDetails")
	}

	if err := e.SetClientDetails(protocol.ClientIdentity{Name: "no id"}); !errors.Is(err, protocol.ErrIdentityNotSet) {
		t.Errorf("SetClientDetails() without ID error = %v, want ErrIdentityNotSet", err)
	}
	if err := e.SetClientDetails(testIdentity); err != nil {
		t.Fatalf("SetClientDetails() error = %v", err)
	}
	if err := e.SetClientDetails(testIdentity); err != nil {
		t.Errorf("SetClientDetails() same identity error = %v, want nil", err)
	}

	other := testIdentity
	other.Name = "Other"
	if err := e.SetClientDetails(other); !errors.Is(err, ErrIdentityAlreadySet) {
		t.Errorf("SetClientDetails() different identity error = %v, want ErrIdentityAlreadySet", err)
	}

	got, ok := e.ClientDetails()
	if !ok || got != testIdentity {
		t.Errorf("ClientDetails() = %+v, %v, want %+v, true", got, ok, testIdentity)
	}
}

func TestEngine_Defaults(t *testing.T) {
	e := New(Config{Transport: &transporttest.Opener{}})

	if e.discoveryLoop.Interval() != DefaultDiscoveryInterval {
		t.Errorf("discovery interval = %d, want %d", e.discoveryLoop.Interval(), DefaultDiscoveryInterval)
	}
	if e.registrationLoop.Interval() != DefaultRegistrationInterval {
		t.Errorf("registration interval = %d, want %d", e.registrationLoop.Interval(), DefaultRegistrationInterval)
	}
	if e.Servers() == nil || len(e.Servers()) != 0 {
		t.Error("Servers() should start empty")
	}

	e.SetInterval(30)
	if e.discoveryLoop.Interval() != 30 {
		t.Errorf("SetInterval(30) left interval at %d", e.discoveryLoop.Interval())
	}
	e.SetRegistrationInterval(2)
	if e.registrationLoop.Interval() != 2 {
		t.Errorf("SetRegistrationInterval(2) left interval at %d", e.registrationLoop.Interval())
	}
}

func TestEngine_DiscoverKeepsArrivalOrder(t *testing.T) {
	fake := &transporttest.Opener{}
	fake.Reply("192.168.1.60", "HTTP/1.1 200 OK\nName: Second\nPort: 32400\n")
	fake.Reply("192.168.1.50", "HTTP/1.1 200 OK\nName: First\nPort: 32400\n")
	e := newTestEngine(fake, nil)

	if err := e.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	servers := e.Servers()
	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}
	if servers[0].Address != "192.168.1.60" || servers[1].Address != "192.168.1.50" {
		t.Errorf("servers = %v, %v, want arrival order", servers[0].Address, servers[1].Address)
	}
	if !e.DiscoveryComplete() {
		t.Error("DiscoveryComplete() = false after a cycle")
	}
}

func TestEngine_DiscoverReplacesStaleList(t *testing.T) {
	fake := &transporttest.Opener{}
	fake.Reply("192.168.1.50", "HTTP/1.1 200 OK\nName: Gone soon\n")
	e := newTestEngine(fake, nil)

	if err := e.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(e.Servers()) != 1 {
		t.Fatalf("got %d servers after first cycle, want 1", len(e.Servers()))
	}

	if err := e.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	servers := e.Servers()
	if servers == nil || len(servers) != 0 {
		t.Errorf("Servers() = %v after a silent cycle, want empty", servers)
	}
	if !e.DiscoveryComplete() {
		t.Error("DiscoveryComplete() = false after an empty cycle")
	}
}

func TestEngine_DiscoverOpenFailure(t *testing.T) {
	e := newTestEngine(&transporttest.Opener{OpenErr: errors.New("EMFILE")}, nil)

	if err := e.Discover(context.Background()); err == nil {
		t.Fatal("Discover() error = nil, want socket error")
	}
	if e.DiscoveryComplete() {
		t.Error("DiscoveryComplete() = true after the socket could not be opened")
	}
}

func TestEngine_ServersReturnsCopy(t *testing.T) {
	fake := &transporttest.Opener{}
	fake.Reply("192.168.1.50", "HTTP/1.1 200 OK\nName: NAS\n")
	e := newTestEngine(fake, nil)
	_ = e.Discover(context.Background())

	servers := e.Servers()
	servers[0].Name = "mutated"

	if e.Servers()[0].Name != "NAS" {
		t.Error("mutating the result of Servers() changed engine state")
	}
}

func TestEngine_RegisterWithoutIdentity(t *testing.T) {
	fake := &transporttest.Opener{}
	e := newTestEngine(fake, nil)

	if e.Register(context.Background()) {
		t.Error("Register() = true without client details")
	}
	if e.Registered() {
		t.Error("Registered() = true without client details")
	}
	if len(fake.Sent()) != 0 {
		t.Errorf("sent %d datagrams without client details, want 0", len(fake.Sent()))
	}
}

func TestEngine_RegisterSendFailure(t *testing.T) {
	fake := &transporttest.Opener{WriteErr: errors.New("ENETUNREACH")}
	e := newTestEngine(fake, nil)
	_ = e.SetClientDetails(testIdentity)

	if e.Register(context.Background()) {
		t.Error("Register() = true when the send failed")
	}
	if e.Registered() {
		t.Error("Registered() = true when the send failed")
	}
}

func TestEngine_StopRegistrationSendsOneBye(t *testing.T) {
	fake := &transporttest.Opener{}
	e := newTestEngine(fake, nil)
	e.SetRegistrationInterval(1)
	_ = e.SetClientDetails(testIdentity)

	e.StartRegistration()
	waitFor(t, func() bool { return len(fake.SentTo(protocol.RegistrationPort)) >= 3 })
	if !e.Registered() {
		t.Error("Registered() = false while announcing")
	}

	e.StopRegistration()

	if e.registrationLoop.Running() {
		t.Error("registration loop still running after StopRegistration()")
	}

	var hellos, byes int
	sent := fake.SentTo(protocol.RegistrationPort)
	for _, msg := range sent {
		switch {
		case strings.HasPrefix(msg, protocol.RegisterHeader):
			hellos++
		case strings.HasPrefix(msg, protocol.DeregisterHeader):
			byes++
		}
	}
	if byes != 1 {
		t.Errorf("sent %d BYE datagrams, want 1", byes)
	}
	if !strings.HasPrefix(sent[len(sent)-1], protocol.DeregisterHeader) {
		t.Error("BYE was not the last announcement sent")
	}
	if hellos < 3 {
		t.Errorf("sent %d HELLO datagrams, want at least 3", hellos)
	}
	if e.Registered() {
		t.Error("Registered() = true after deregistration")
	}

	e.StopRegistration()
	if got := len(fake.SentTo(protocol.RegistrationPort)); got != len(sent) {
		t.Errorf("second StopRegistration() sent %d more datagrams", got-len(sent))
	}
}

func TestEngine_StopWithoutStart(t *testing.T) {
	fake := &transporttest.Opener{}
	e := newTestEngine(fake, nil)
	_ = e.SetClientDetails(testIdentity)

	done := make(chan struct{})
	go func() {
		e.StopAll()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StopAll() blocked on loops that never started")
	}
	if len(fake.Sent()) != 0 {
		t.Errorf("StopAll() on idle engine sent %d datagrams, want 0", len(fake.Sent()))
	}
}

func TestEngine_StartDiscoveryTwice(t *testing.T) {
	fake := &transporttest.Opener{}
	e := newTestEngine(fake, nil)

	e.StartDiscovery()
	e.StartDiscovery()
	waitFor(t, e.DiscoveryComplete)
	e.StopDiscovery()

	if e.discoveryLoop.Running() {
		t.Error("discovery loop still running after a single StopDiscovery()")
	}
	if !fake.Balanced() {
		t.Error("a discovery socket was left open")
	}
}

func TestEngine_CheckRegistration(t *testing.T) {
	t.Run("false before discovery completes", func(t *testing.T) {
		getter := &stubGetter{body: testIdentity.ID}
		e := newTestEngine(&transporttest.Opener{}, getter)
		_ = e.SetClientDetails(testIdentity)

		if !e.Register(context.Background()) {
			t.Fatal("Register() = false")
		}
		if e.CheckRegistration(context.Background()) {
			t.Error("CheckRegistration() = true before discovery completed")
		}
		if len(getter.urls) != 0 {
			t.Error("no HTTP request should be made before discovery completed")
		}
	})

	t.Run("false before registering", func(t *testing.T) {
		fake := &transporttest.Opener{}
		fake.Reply("192.168.1.50", "HTTP/1.1 200 OK\nPort: 32400\n")
		e := newTestEngine(fake, &stubGetter{body: testIdentity.ID})
		_ = e.SetClientDetails(testIdentity)
		_ = e.Discover(context.Background())

		if e.CheckRegistration(context.Background()) {
			t.Error("CheckRegistration() = true before registering")
		}
	})

	t.Run("asks only the first server", func(t *testing.T) {
		fake := &transporttest.Opener{}
		fake.Reply("192.168.1.50", "HTTP/1.1 200 OK\nPort: 32400\n")
		fake.Reply("192.168.1.51", "HTTP/1.1 200 OK\nPort: 32400\n")
		getter := &stubGetter{body: `<Server machineIdentifier="Test-Name"/>`}
		e := newTestEngine(fake, getter)
		_ = e.SetClientDetails(testIdentity)
		_ = e.Discover(context.Background())
		e.Register(context.Background())

		if !e.CheckRegistration(context.Background()) {
			t.Error("CheckRegistration() = false, want true")
		}
		if len(getter.urls) != 1 || getter.urls[0] != "http://192.168.1.50:32400/clients" {
			t.Errorf("requested %v, want only the first server", getter.urls)
		}
	})

	t.Run("false without a server port", func(t *testing.T) {
		fake := &transporttest.Opener{}
		fake.Reply("192.168.1.50", "HTTP/1.1 404 Not Found\n")
		getter := &stubGetter{body: testIdentity.ID}
		e := newTestEngine(fake, getter)
		_ = e.SetClientDetails(testIdentity)
		_ = e.Discover(context.Background())
		e.Register(context.Background())

		if e.CheckRegistration(context.Background()) {
			t.Error("CheckRegistration() = true for a server without a port")
		}
		if len(getter.urls) != 0 {
			t.Errorf("requested %v, want no request", getter.urls)
		}
	})

	t.Run("false when client not listed", func(t *testing.T) {
		fake := &transporttest.Opener{}
		fake.Reply("192.168.1.50", "HTTP/1.1 200 OK\nPort: 32400\n")
		e := newTestEngine(fake, &stubGetter{body: "<MediaContainer/>"})
		_ = e.SetClientDetails(testIdentity)
		_ = e.Discover(context.Background())
		e.Register(context.Background())

		if e.CheckRegistration(context.Background()) {
			t.Error("CheckRegistration() = true when the client is not listed")
		}
	})
}

func TestEngine_ConcurrentReaders(t *testing.T) {
	fake := &transporttest.Opener{}
	e := New(Config{
		Transport:            fake,
		HTTP:                 &stubGetter{},
		Tick:                 time.Millisecond,
		DiscoveryInterval:    1,
		RegistrationInterval: 1,
	})
	_ = e.SetClientDetails(testIdentity)

	e.StartAll()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = e.Servers()
				_ = e.DiscoveryComplete()
				_ = e.Registered()
				_ = e.CheckRegistration(context.Background())
			}
		}()
	}
	wg.Wait()

	e.StopAll()
	if e.discoveryLoop.Running() || e.registrationLoop.Running() {
		t.Error("loops still running after StopAll()")
	}
}

func TestEngine_EmptyServersMarshalAsArray(t *testing.T) {
	e := newTestEngine(&transporttest.Opener{}, nil)

	data, err := json.Marshal(e.Servers())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("json.Marshal(Servers()) = %s, want []", data)
	}
}

func TestEngine_StoppedDiscoveryCycleStillReplacesList(t *testing.T) {
	fake := &transporttest.Opener{}
	fake.Reply("192.168.1.50", "HTTP/1.1 200 OK\nName: Late\nPort: 32400\n")
	e := newTestEngine(fake, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.runDiscovery(ctx)

	servers := e.Servers()
	if len(servers) != 1 || servers[0].Name != "Late" {
		t.Errorf("Servers() = %v, want the cycle's reply", servers)
	}
	if !e.DiscoveryComplete() {
		t.Error("DiscoveryComplete() = false after a cycle finished during stop")
	}
}
