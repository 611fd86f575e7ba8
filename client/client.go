// File: client/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Minimal HTTP/1.1 GET client whose requests are leaf futures. Each Get
// owns one nonblocking connection registered with the reactor; the future
// reads until EOF and resolves to the raw response text, headers included.

package client

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/reactor"
	"github.com/rs/zerolog"
)

// errWouldBlock is the normalized "no data yet" signal from stream.read.
var errWouldBlock = fmt.Errorf("would block")

// Client issues GET requests against one host:port.
type Client struct {
	reactor *reactor.Reactor
	addr    string
	host    string
	log     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client that connects to addr ("host:port") through r.
func New(r *reactor.Reactor, addr string, opts ...Option) *Client {
	host := addr
	if i := strings.LastIndexByte(addr, ':'); i >= 0 {
		host = addr[:i]
	}
	c := &Client{reactor: r, addr: addr, host: host, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the leaf future for one GET request. The token is allocated
// eagerly, so calling Get on a stopped reactor panics; the connection
// itself opens on the future's first poll.
func (c *Client) Get(path string) api.Future[string] {
	return &getFuture{client: c, path: path, token: c.reactor.NextToken()}
}

// getFuture reads one HTTP response. First poll opens the connection,
// writes the request and registers the socket; every later poll drains
// the socket until EOF resolves it or EAGAIN suspends it.
type getFuture struct {
	client *Client
	path   string
	token  api.Token
	stream *stream
	buf    bytes.Buffer
	done   bool
}

func (f *getFuture) Poll(w api.Waker) api.PollState[string] {
	if f.done {
		panic(api.ErrFutureResolved)
	}
	if f.stream == nil {
		f.connect(w)
	}
	var chunk [4096]byte
	for {
		n, err := f.stream.read(chunk[:])
		switch {
		case err == errWouldBlock:
			// Freshest waker wins: re-store on every pending return.
			f.client.reactor.SetWaker(f.token, w)
			return api.Pending[string]()
		case err != nil:
			panic(fmt.Errorf("http read %s: %w", f.path, err))
		case n == 0:
			// EOF: the server closed after the full response.
			if derr := f.client.reactor.Deregister(f.stream, f.token); derr != nil {
				panic(fmt.Errorf("http deregister: %w", derr))
			}
			f.stream.close(f.client.log)
			f.done = true
			f.client.log.Debug().Str("path", f.path).Int("bytes", f.buf.Len()).Msg("client: response complete")
			return api.Ready(f.buf.String())
		default:
			f.buf.Write(chunk[:n])
		}
	}
}

func (f *getFuture) connect(w api.Waker) {
	c := f.client
	s, err := dial(c.addr)
	if err != nil {
		panic(fmt.Errorf("http connect %s: %w", c.addr, err))
	}
	f.stream = s
	req := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", f.path, c.host)
	if err := s.writeAll([]byte(req)); err != nil {
		panic(fmt.Errorf("http write %s: %w", f.path, err))
	}
	if err := c.reactor.Register(s, api.Readable|api.EdgeTriggered, f.token); err != nil {
		panic(fmt.Errorf("http register: %w", err))
	}
	c.reactor.SetWaker(f.token, w)
	c.log.Debug().Str("path", f.path).Uint64("token", uint64(f.token)).Msg("client: request sent")
}
