package ir

import "sync"

// Registry holds an ordered list of protocol instances and dispatches raw
// timing vectors to each in turn, per spec.md §4.10. Each registered
// protocol gets its own Session, constructed once at Register time and
// reused for the lifetime of the Registry so repeat/toggle state persists
// across calls.
type Registry struct {
	mu        sync.Mutex
	scheduler Scheduler
	order     []*Protocol
	sessions  map[*Protocol]*Session
	byName    map[string]*Protocol
}

// NewRegistry constructs an empty registry. scheduler may be nil, in which
// case sessions never arm repeat-idle timers (useful for pure decode/encode
// use without the repeat state machine).
func NewRegistry(scheduler Scheduler) *Registry {
	return &Registry{
		scheduler: scheduler,
		sessions:  make(map[*Protocol]*Session),
		byName:    make(map[string]*Protocol),
	}
}

// Register adds a protocol to the dispatch order, under its Name and any
// Aliases, and constructs its Session.
func (r *Registry) Register(p *Protocol) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = append(r.order, p)
	r.sessions[p] = NewSession(p, r.scheduler)
	r.byName[p.Name] = p
	for _, alias := range p.Aliases {
		r.byName[alias] = p
	}
}

// Lookup returns the registered protocol by name or alias.
func (r *Registry) Lookup(name string) (*Protocol, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byName[name]
	return p, ok
}

func (r *Registry) sessionFor(p *Protocol) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[p]
}

func (r *Registry) snapshot() []*Protocol {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Protocol(nil), r.order...)
}

// Decode tries every registered protocol in registration order, collecting
// every Code any of them successfully produced. LeadInError, LeadOutError,
// IRStreamError, DecodeError, and repeat-sentinel outcomes (see §7) all
// mean "no code from this protocol" and dispatch simply continues; if
// nothing matches, it is the caller's choice whether to fall back to
// DecodeUniversal.
func (r *Registry) Decode(rlc RLC, frequency int) []Code {
	var codes []Code
	for _, p := range r.snapshot() {
		session := r.sessionFor(p)
		code, err := session.Decode(rlc, frequency)
		if err != nil {
			logger().Debug("protocol did not match", "protocol", p.Name, "err", err)
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// DecodeOutcome is the repeat-aware counterpart of Decode: it returns the
// first protocol's DecodeOutcome that is not a plain decode failure,
// letting a caller observe RepeatLeadIn/RepeatLeadOut/TimedOut directly
// instead of having them silently swallowed.
func (r *Registry) DecodeOutcome(rlc RLC, frequency int) (DecodeOutcome, *Protocol, error) {
	var lastErr error
	for _, p := range r.snapshot() {
		session := r.sessionFor(p)
		outcome, err := session.DecodeOutcome(rlc, frequency)
		if err != nil {
			lastErr = err
			continue
		}
		return outcome, p, nil
	}
	if lastErr == nil {
		lastErr = decodeErrorf("no registered protocol matched")
	}
	return DecodeOutcome{}, nil, lastErr
}

// EncodeWith encodes fields using the named protocol's Encode hook
// (default or override).
func (r *Registry) EncodeWith(protocolName string, fields map[string]uint64, repeatCount int) (Code, error) {
	p, ok := r.Lookup(protocolName)
	if !ok {
		return Code{}, decodeErrorf("unknown protocol %q", protocolName)
	}

	hook := p.Encode
	if hook == nil {
		hook = DefaultEncode
	}
	return hook(p, r.sessionFor(p), fields, repeatCount)
}

// RegisterReleasedCallback arms the named protocol's session to invoke fn
// exactly once whenever its repeat-idle timer expires, per spec.md §6's
// register_released_callback boundary.
func (r *Registry) RegisterReleasedCallback(protocolName string, fn func(Code)) error {
	p, ok := r.Lookup(protocolName)
	if !ok {
		return decodeErrorf("unknown protocol %q", protocolName)
	}
	r.sessionFor(p).OnReleased(fn)
	return nil
}
