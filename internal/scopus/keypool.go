// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Credential is one API key handed out by the pool. The pool retains
// ownership; callers hold a Credential only for the duration of a single
// request and hand it back implicitly by letting it go out of scope.
type Credential struct {
	// Token is the raw API key value.
	Token string

	// id indexes the key inside the pool, for MarkExhausted.
	id int
}

// KeyPool rotates a set of API keys round-robin and throttles acquisition
// to a global request ceiling shared by all keys. It is safe for many
// concurrent callers; acquisition order under contention is whichever
// caller the limiter grants first, not FIFO.
type KeyPool struct {
	limiter *rate.Limiter

	mu        sync.Mutex
	keys      []string
	exhausted []bool
	next      int
	remaining int
}

// NewKeyPool builds a pool over tokens with a ceiling of perSecond requests
// per trailing second. The limiter is configured with burst 1, so grants
// are spaced at least 1/perSecond apart and no sliding 1-second window can
// see more than perSecond dispatches.
func NewKeyPool(tokens []string, perSecond int) *KeyPool {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &KeyPool{
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(perSecond)), 1),
		keys:      append([]string(nil), tokens...),
		exhausted: make([]bool, len(tokens)),
		remaining: len(tokens),
	}
}

// Acquire blocks until the throttle window has capacity and returns the
// next non-exhausted key in rotation. It fails with ErrPoolExhausted when
// no usable key remains, and with the context error when ctx is cancelled
// during the wait.
func (p *KeyPool) Acquire(ctx context.Context) (Credential, error) {
	// Check for a usable key before waiting: a drained pool should fail
	// fast, not burn a limiter slot.
	if _, _, ok := p.pick(false); !ok {
		return Credential{}, ErrPoolExhausted
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return Credential{}, err
	}

	token, id, ok := p.pick(true)
	if !ok {
		// Every key was marked exhausted while we waited on the limiter.
		return Credential{}, ErrPoolExhausted
	}
	return Credential{Token: token, id: id}, nil
}

// pick returns the next non-exhausted key round-robin. When advance is
// false it only probes for availability without moving the cursor.
func (p *KeyPool) pick(advance bool) (string, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.remaining == 0 {
		return "", 0, false
	}
	for i := 0; i < len(p.keys); i++ {
		idx := (p.next + i) % len(p.keys)
		if p.exhausted[idx] {
			continue
		}
		if advance {
			p.next = (idx + 1) % len(p.keys)
		}
		return p.keys[idx], idx, true
	}
	return "", 0, false
}

// Throttle blocks until the ceiling allows one more dispatch. Acquire
// throttles on its own; Throttle covers re-dispatching a request that
// already holds a credential, such as a retry of a failed page fetch.
func (p *KeyPool) Throttle(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// MarkExhausted permanently removes cred's key from rotation for the
// remainder of the run. Marking the same key twice is harmless.
func (p *KeyPool) MarkExhausted(cred Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cred.id < 0 || cred.id >= len(p.keys) || p.exhausted[cred.id] {
		return
	}
	p.exhausted[cred.id] = true
	p.remaining--
}

// Remaining returns the number of keys still in rotation.
func (p *KeyPool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}

// Size returns the total number of keys the pool was built with.
func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
