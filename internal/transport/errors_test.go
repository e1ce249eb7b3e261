package transport

import (
	"errors"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"permission", &net.OpError{Op: "listen", Err: os.NewSyscallError("bind", syscall.EACCES)}, ErrTypePermission},
		{"unreachable", &net.OpError{Op: "write", Err: os.NewSyscallError("sendto", syscall.ENETUNREACH)}, ErrTypeUnreachable},
		{"in use", &net.OpError{Op: "listen", Err: os.NewSyscallError("bind", syscall.EADDRINUSE)}, ErrTypeAddrInUse},
		{"no device", &net.OpError{Op: "listen", Err: os.NewSyscallError("setsockopt", syscall.ENODEV)}, ErrTypeNoInterface},
		{"other", errors.New("boom"), ErrTypeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("open", tt.err)
			if got.Type != tt.want {
				t.Errorf("Classify().Type = %v, want %v", got.Type, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("Classify() result should unwrap to the original error")
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if got := Classify("open", nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassify_AlreadyClassified(t *testing.T) {
	first := Classify("open", syscall.EACCES)
	if got := Classify("other", first); got != first {
		t.Error("Classify() should return an existing SocketError unchanged")
	}
}

func TestTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"permission", Classify("open", syscall.EPERM), "firewall"},
		{"in use", Classify("listen", syscall.EADDRINUSE), "Another program"},
		{"raw op error", &net.OpError{Op: "write", Err: syscall.EHOSTUNREACH}, "no route"},
		{"generic", Classify("open", errors.New("boom")), "--mdns"},
		{"unknown", errors.New("boom"), "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TroubleshootingHint(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("TroubleshootingHint() = %q, want substring %q", got, tt.want)
			}
		})
	}
}
