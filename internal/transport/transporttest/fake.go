// Package transporttest provides an in-memory transport.Opener for tests.
package transporttest

import (
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/muurk/plexgdm/internal/transport"
)

// Datagram is a packet sent or received through the fake.
type Datagram struct {
	Addr *net.UDPAddr
	Data []byte
}

// Opener is a scripted transport.Opener. Every Conn it opens shares the
// Replies queue and records into Sent.
type Opener struct {
	mu sync.Mutex

	// OpenErr is returned by Open when set
	OpenErr error

	// WriteErr is returned by every WriteTo when set
	WriteErr error

	// ReadErr is returned by ReadFrom once Replies is drained, instead of
	// a deadline error
	ReadErr error

	replies []Datagram
	sent    []Datagram
	ttls    []int
	opened  int
	closed  int
}

// Reply queues a datagram to be returned by the next ReadFrom.
func (o *Opener) Reply(from string, data string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.replies = append(o.replies, Datagram{
		Addr: &net.UDPAddr{IP: net.ParseIP(from), Port: 32414},
		Data: []byte(data),
	})
}

// Open implements transport.Opener.
func (o *Opener) Open(ttl int) (transport.Conn, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	o.opened++
	o.ttls = append(o.ttls, ttl)
	return &conn{o: o}, nil
}

// Sent returns a copy of every datagram written so far.
func (o *Opener) Sent() []Datagram {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Datagram(nil), o.sent...)
}

// SentTo returns the payloads written to the given port, in order.
func (o *Opener) SentTo(port int) []string {
	var out []string
	for _, d := range o.Sent() {
		if d.Addr.Port == port {
			out = append(out, string(d.Data))
		}
	}
	return out
}

// TTLs returns the TTL of every socket opened, in order.
func (o *Opener) TTLs() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.ttls...)
}

// Balanced reports whether every opened socket was closed.
func (o *Opener) Balanced() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened == o.closed
}

type conn struct {
	o      *Opener
	closed bool
}

func (c *conn) WriteTo(b []byte, addr *net.UDPAddr) (int, error) {
	c.o.mu.Lock()
	defer c.o.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	if c.o.WriteErr != nil {
		return 0, c.o.WriteErr
	}
	c.o.sent = append(c.o.sent, Datagram{Addr: addr, Data: append([]byte(nil), b...)})
	return len(b), nil
}

func (c *conn) ReadFrom(b []byte) (int, *net.UDPAddr, error) {
	c.o.mu.Lock()
	defer c.o.mu.Unlock()
	if c.closed {
		return 0, nil, net.ErrClosed
	}
	if len(c.o.replies) == 0 {
		if c.o.ReadErr != nil {
			return 0, nil, c.o.ReadErr
		}
		// stand in for a short read deadline so polling callers don't spin
		c.o.mu.Unlock()
		time.Sleep(time.Millisecond)
		c.o.mu.Lock()
		return 0, nil, os.ErrDeadlineExceeded
	}
	d := c.o.replies[0]
	c.o.replies = c.o.replies[1:]
	n := copy(b, d.Data)
	return n, d.Addr, nil
}

func (c *conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *conn) Close() error {
	c.o.mu.Lock()
	defer c.o.mu.Unlock()
	if c.closed {
		return errors.New("already closed")
	}
	c.closed = true
	c.o.closed++
	return nil
}
