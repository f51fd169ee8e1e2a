package stun

import (
	"context"
	"sync"
	"time"
)

// TransactionConfig controls the retransmission schedule of a client
// transaction. The defaults reproduce RFC 5389's recommended schedule:
// seven transmissions with doubling intervals (500ms, 1s, 2s, 4s, 8s,
// 16s), then a final wait of RM*RTO before giving up — a total timeout of
// about 39.5s.
type TransactionConfig struct {
	RTO     time.Duration // initial retransmission timeout
	Retries int           // total number of transmissions, including the first
	RM      int           // multiplier of the initial RTO for the final wait
}

func defaultTransactionConfig() TransactionConfig {
	return TransactionConfig{RTO: 500 * time.Millisecond, Retries: 7, RM: 16}
}

func (c TransactionConfig) withDefaults() TransactionConfig {
	if c.RTO <= 0 {
		c.RTO = defaultTransactionConfig().RTO
	}
	if c.Retries <= 0 {
		c.Retries = defaultTransactionConfig().Retries
	}
	if c.RM <= 0 {
		c.RM = defaultTransactionConfig().RM
	}
	return c
}

type transactionResult struct {
	resp *Response
	err  error
}

type pendingTransaction struct {
	resultCh chan transactionResult
}

// Engine correlates outgoing requests with inbound responses over a shared
// Transport. It is the only concurrent component of this package (section
// 5 of the design): one goroutine drains the transport and dispatches to
// whichever RoundTrip call is waiting on a given transaction id, guarded by
// a mutex around the pending-transaction map.
type Engine struct {
	transport Transport
	clock     Clock
	logger    *Logger

	mu      sync.Mutex
	pending map[[transactionIDSize]byte]*pendingTransaction

	runOnce sync.Once
}

// NewEngine returns an Engine reading from transport. clock and logger may
// be nil, in which case the real clock and a default logger are used.
func NewEngine(transport Transport, clock Clock, logger *Logger) *Engine {
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Engine{
		transport: transport,
		clock:     clock,
		logger:    logger,
		pending:   make(map[[transactionIDSize]byte]*pendingTransaction),
	}
}

// runLoop reads datagrams until ctx is done, matching each STUN response to
// a pending transaction. A datagram that isn't STUN, doesn't parse, isn't a
// success/error response, or doesn't match a pending id is dropped
// silently — per the spec, late or unmatched datagrams are discarded
// without complaint.
func (e *Engine) runLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := e.transport.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if !IsMessage(data, false) {
			continue
		}
		resp, err := ParseResponse(data)
		if err != nil {
			continue
		}
		if resp.Type.Class != ClassSuccess && resp.Type.Class != ClassError {
			continue
		}
		if len(resp.TransactionID) < transactionIDSize {
			continue
		}
		var id [transactionIDSize]byte
		copy(id[:], resp.TransactionID[:transactionIDSize])

		e.mu.Lock()
		pend, ok := e.pending[id]
		if ok {
			delete(e.pending, id)
		}
		e.mu.Unlock()
		if !ok {
			continue
		}
		select {
		case pend.resultCh <- transactionResult{resp: resp}:
		default:
		}
	}
}

// RoundTrip sends req and waits for a matching response, retransmitting per
// cfg until the schedule is exhausted (ErrTimeout) or ctx is cancelled
// (ErrCancelled). req must already have its type set; a transaction id is
// generated if one was not set.
//
// The receive loop is started once, on the first call, against that call's
// ctx: runOnce pins runLoop to it for the Engine's lifetime. Client never
// calls RoundTrip again after its one ctx is done, so this is fine there;
// an Engine reused directly across multiple contexts needs runLoop kept
// alive independently of any single RoundTrip's ctx.
func (e *Engine) RoundTrip(ctx context.Context, req *Request, cfg TransactionConfig) (*Response, error) {
	cfg = cfg.withDefaults()

	txID, err := req.TransactionID()
	if err != nil {
		return nil, err
	}

	pend := &pendingTransaction{resultCh: make(chan transactionResult, 1)}
	e.mu.Lock()
	e.pending[txID] = pend
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.pending, txID)
		e.mu.Unlock()
	}()

	e.runOnce.Do(func() { go e.runLoop(ctx) })

	encoded, err := req.Encode()
	if err != nil {
		return nil, err
	}

	rto := cfg.RTO
	for attempt := 0; ; attempt++ {
		if err := e.transport.Send(ctx, encoded); err != nil {
			return nil, err
		}
		if attempt == 0 {
			e.logger.LogTransactionStart(req.typ, txID)
		} else {
			e.logger.LogRetransmit(req.typ, txID, attempt)
		}

		last := attempt == cfg.Retries-1
		wait := rto
		if last {
			wait = time.Duration(cfg.RM) * cfg.RTO
		}
		timer := e.clock.NewTimer(wait)

		select {
		case res := <-pend.resultCh:
			timer.Stop()
			return res.resp, res.err
		case <-timer.C():
			if last {
				e.logger.LogTimeout(req.typ, txID)
				return nil, ErrTimeout
			}
			rto *= 2
		case <-ctx.Done():
			timer.Stop()
			e.logger.LogCancelled(req.typ, txID)
			return nil, ErrCancelled
		}
	}
}
