// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"slices"
	"sync"
)

// Recorder collects completion callback tokens.
type Recorder struct {
	mtx    sync.Mutex
	tokens []uint64
}

// Done is the callback to register with the mixer.
func (r *Recorder) Done(token uint64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.tokens = append(r.tokens, token)
}

// Tokens returns the tokens received so far, in order.
func (r *Recorder) Tokens() []uint64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Clone(r.tokens)
}

// Count returns how many times token was received.
func (r *Recorder) Count(token uint64) int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	n := 0
	for _, t := range r.tokens {
		if t == token {
			n++
		}
	}
	return n
}
