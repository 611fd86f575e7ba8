// File: poll/poll.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral event queue vocabulary shared by the Linux epoll
// implementation and the unsupported-platform stub.

package poll

import (
	"math"

	"github.com/momentics/hioload-async/api"
	"github.com/rs/zerolog"
)

// WakeToken is the reserved token of the queue's internal wake channel.
// Reactor-allocated tokens never reach it.
const WakeToken = api.Token(math.MaxUint64)

// Event is one readiness notification as delivered by the OS. The queue
// does not buffer, reorder or filter; callers see what the kernel reported.
type Event struct {
	// Bits is the raw readiness mask (EPOLLIN, EPOLLHUP, ... on Linux).
	Bits uint32
	// Token routes the event back to the registration it belongs to.
	Token api.Token
}

// Readable reports whether the event carries read readiness.
func (e Event) Readable() bool { return e.Bits&uint32(api.Readable) != 0 }

// Option customizes a Poll instance.
type Option func(*Poll)

// WithLogger sets the logger used for non-fatal teardown failures.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Poll) { p.log = log }
}
