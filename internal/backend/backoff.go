package backend

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// hintedBackOff waits at least as long as the server last asked for. The hint
// applies to the next wait only.
type hintedBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > next {
		next = b.hint
	}
	b.hint = 0
	return next
}

func (b *hintedBackOff) Reset() {
	b.hint = 0
	b.BackOff.Reset()
}
