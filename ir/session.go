package ir

import (
	"sync"
	"time"
)

// OutcomeKind classifies a DecodeOutcome, replacing the source's
// exception-driven repeat control with a tagged result per spec.md §9's
// redesign note.
type OutcomeKind int

const (
	OutcomeCode OutcomeKind = iota
	OutcomeRepeatIn
	OutcomeRepeatOut
	OutcomeTimedOut
)

// DecodeOutcome is the repeat-aware result of Session.DecodeOutcome: a
// decoded Code, a repeat-sentinel signal, or a timed-out notice. Only
// OutcomeCode carries a meaningful Code value.
type DecodeOutcome struct {
	Kind OutcomeKind
	Code Code
}

// Session holds the mutable, per-protocol state the source keeps on each
// module-level protocol "singleton": the last decoded code, the repeat
// idle timer, and (for protocols whose decode hook swaps lead-in/lead-out
// between command and repeat-sentinel shapes) the currently active
// variant. Protocol descriptors stay immutable; all of this lives here
// instead, per spec.md §9's "mutating lead_in/lead_out in place" redesign
// note.
type Session struct {
	mu        sync.Mutex
	protocol  *Protocol
	scheduler Scheduler

	leadIn, leadOut RLC // the variant currently armed for the next frame

	lastCode   *Code
	cancelIdle Cancel

	onReleased func(Code)
}

// NewSession constructs a session for one protocol, with its lead-in/out
// initialised to the protocol's primary (non-repeat) variant.
func NewSession(p *Protocol, scheduler Scheduler) *Session {
	return &Session{
		protocol:  p,
		scheduler: scheduler,
		leadIn:    p.LeadIn,
		leadOut:   p.LeadOut,
	}
}

// OnReleased registers a callback invoked exactly once when the session's
// repeat-idle timer expires and the session returns to IDLE.
func (s *Session) OnReleased(fn func(Code)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReleased = fn
}

// LastCode returns the most recently held code and whether one exists.
func (s *Session) LastCode() (Code, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCode == nil {
		return Code{}, false
	}
	return *s.lastCode, true
}

// currentFrame returns the lead-in/lead-out currently armed for decode,
// letting a protocol's decode hook request the repeat variant instead via
// UseRepeatFraming.
func (s *Session) currentFrame() (RLC, RLC) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leadIn, s.leadOut
}

// UseRepeatFraming switches the session's armed lead-in/lead-out to the
// protocol's declared repeat variant (or back to the primary variant),
// called by protocol-specific decode hooks that alternate framing across
// successive calls.
func (s *Session) UseRepeatFraming(useRepeat bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if useRepeat {
		s.leadIn, s.leadOut = s.protocol.RepeatLeadIn, s.protocol.RepeatLeadOut
	} else {
		s.leadIn, s.leadOut = s.protocol.LeadIn, s.protocol.LeadOut
	}
}

// Decode is the plain, non-repeat-aware entry point: repeat sentinel
// outcomes are reported as errors (ErrRepeatLeadIn / ErrRepeatLeadOut) so
// that Registry.Decode's "no code from this protocol, try the next"
// dispatch loop treats them exactly like any other non-match.
func (s *Session) Decode(rlc RLC, frequency int) (Code, error) {
	outcome, err := s.DecodeOutcome(rlc, frequency)
	if err != nil {
		return Code{}, err
	}
	switch outcome.Kind {
	case OutcomeCode:
		return outcome.Code, nil
	case OutcomeRepeatIn:
		return Code{}, ErrRepeatLeadIn
	case OutcomeRepeatOut:
		return Code{}, ErrRepeatLeadOut
	default:
		return Code{}, ErrRepeatTimeoutExpired
	}
}

// DecodeOutcome runs the protocol's decode hook (default or override) and
// folds its result and any repeat control-flow signal into the session's
// IDLE/HELD state machine per spec.md §4.8.
func (s *Session) DecodeOutcome(rlc RLC, frequency int) (DecodeOutcome, error) {
	hook := s.protocol.Decode
	if hook == nil {
		hook = DefaultDecode
	}

	code, err := hook(s.protocol, s, rlc, frequency)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			switch de.Kind {
			case KindRepeatLeadIn:
				s.armIdleTimer(code)
				return DecodeOutcome{Kind: OutcomeRepeatIn}, nil
			case KindRepeatLeadOut:
				s.armIdleTimer(code)
				return DecodeOutcome{Kind: OutcomeRepeatOut}, nil
			}
		}
		s.resetToIdle()
		return DecodeOutcome{}, err
	}

	s.mu.Lock()
	prev := s.lastCode
	s.mu.Unlock()

	if prev != nil && prev.Equal(code) {
		s.armIdleTimer(code)
		logger().Debug("held repeat", "protocol", s.protocol.Name)
		return DecodeOutcome{Kind: OutcomeCode, Code: *prev}, nil
	}

	s.mu.Lock()
	s.lastCode = &code
	s.mu.Unlock()
	s.armIdleTimer(code)
	return DecodeOutcome{Kind: OutcomeCode, Code: code}, nil
}

// armIdleTimer (re)starts the repeat-expiry timer: repeat_timeout if the
// protocol declares one, else the total absolute duration of the frame's
// normalised RLC, per spec.md §4.8.
func (s *Session) armIdleTimer(code Code) {
	if s.scheduler == nil {
		return
	}

	s.mu.Lock()
	if s.cancelIdle != nil {
		s.cancelIdle()
	}
	s.mu.Unlock()

	timeout := s.protocol.RepeatTimeout
	if timeout == 0 {
		var total Tick
		for _, frame := range code.NormalizedRLC {
			total += totalAbsDuration(frame)
		}
		timeout = time.Duration(total) * time.Microsecond
	}

	cancel := s.scheduler.Enqueue(s.now().Add(timeout), func() {
		s.mu.Lock()
		s.lastCode = nil
		cb := s.onReleased
		s.mu.Unlock()
		if cb != nil {
			cb(code)
		}
	})

	s.mu.Lock()
	s.cancelIdle = cancel
	s.mu.Unlock()
}

func (s *Session) resetToIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelIdle != nil {
		s.cancelIdle()
		s.cancelIdle = nil
	}
	s.lastCode = nil
}

// now asks the scheduler for its own notion of the current time when it
// exposes one (both RealClock and ManualClock do), falling back to
// wall-clock time for any other Scheduler implementation.
func (s *Session) now() time.Time {
	if n, ok := s.scheduler.(interface{ Now() time.Time }); ok {
		return n.Now()
	}
	return time.Now()
}
