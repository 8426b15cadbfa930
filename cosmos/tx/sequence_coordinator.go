package tx

import (
	"context"
	"sync"

	"github.com/Bluechip23/Bluejs/log"
)

// accountLane serializes sequence issuance for one account.
type accountLane struct {
	// Closed once the most recently issued ticket has settled.
	tail chan struct{}

	// nil until fetched, or after an invalidation.
	record *SequenceRecord
	// Bumped by invalidations, so that an issuance running concurrently does not write back a stale record.
	generation uint64
	// Callers holding or waiting for a ticket.
	pending int
}

// SequenceCoordinator hands out account sequences. For any one account, calls are served strictly in arrival
// order and each call sees the sequence left behind by the previous one. Accounts are independent of each other.
type SequenceCoordinator struct {
	querier AccountQuerier
	logger  *log.Logger

	lock  sync.Mutex
	lanes map[string]*accountLane
}

func NewSequenceCoordinator(querier AccountQuerier, logger *log.Logger) *SequenceCoordinator {
	return &SequenceCoordinator{
		querier: querier,
		logger:  logger.ApplyPrefix("[sequence]"),

		lanes: make(map[string]*accountLane),
	}
}

// NextSequence returns the sequence to sign the next transaction of address with.
//
// The first call for an account, and the first call after an Invalidate or a failed fetch, asks the node.
// Later calls reuse the cached record. A failed fetch is only reported to the caller that triggered it.
func (sc *SequenceCoordinator) NextSequence(ctx context.Context, address string) (SequenceRecord, error) {
	// Take a ticket: wait on the previous one, and hand ours to the next caller.
	sc.lock.Lock()
	lane := sc.laneFor(address)
	previous := lane.tail
	ticket := make(chan struct{})
	lane.tail = ticket
	lane.pending++
	sc.lock.Unlock()
	defer sc.leave(lane)

	select {
	case <-previous:
	case <-ctx.Done():
		// Our ticket must still settle in order, or everyone behind us waits forever.
		go func() {
			<-previous
			close(ticket)
		}()
		return SequenceRecord{}, ctx.Err()
	}
	defer close(ticket)

	sc.lock.Lock()
	cached := lane.record
	generation := lane.generation
	sc.lock.Unlock()

	logger := sc.logger.With("address", address)
	if cached == nil {
		fetched, err := sc.fetch(ctx, address)
		if err != nil {
			logger.Error("failed to fetch account sequence", "error", err)
			return SequenceRecord{}, err
		}
		logger.Debug("fetched account sequence", "account_number", fetched.AccountNumber, "sequence", fetched.Sequence)
		cached = fetched
	}

	issued := *cached
	next := issued
	next.Sequence++

	sc.lock.Lock()
	if lane.generation == generation {
		lane.record = &next
	}
	sc.lock.Unlock()

	sequencesIssuedTotal.Inc()
	logger.Debug("issued sequence", "sequence", issued.Sequence)
	return issued, nil
}

// Invalidate drops the cached record of address, so the next issuance asks the node again.
func (sc *SequenceCoordinator) Invalidate(address string) {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	lane, found := sc.lanes[address]
	if !found {
		return
	}
	lane.record = nil
	lane.generation++

	sequenceInvalidationsTotal.Inc()
	sc.logger.Info("invalidated cached sequence", "address", address)
}

// Peek returns the record the next issuance for address would use, if one is cached.
func (sc *SequenceCoordinator) Peek(address string) (SequenceRecord, bool) {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	lane, found := sc.lanes[address]
	if !found || lane.record == nil {
		return SequenceRecord{}, false
	}
	return *lane.record, true
}

// Pending is the number of NextSequence calls for address that have not returned yet.
func (sc *SequenceCoordinator) Pending(address string) int {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	lane, found := sc.lanes[address]
	if !found {
		return 0
	}
	return lane.pending
}

func (sc *SequenceCoordinator) leave(lane *accountLane) {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	lane.pending--
}

// laneFor must be called with the lock held.
func (sc *SequenceCoordinator) laneFor(address string) *accountLane {
	lane, found := sc.lanes[address]
	if !found {
		settled := make(chan struct{})
		close(settled)

		lane = &accountLane{tail: settled}
		sc.lanes[address] = lane
	}
	return lane
}

func (sc *SequenceCoordinator) fetch(ctx context.Context, address string) (*SequenceRecord, error) {
	account, err := sc.querier.Account(ctx, address)
	if err != nil {
		sequenceFetchesTotal.WithLabelValues("error").Inc()
		return nil, wrapCause(ErrSequenceFetch, err)
	}
	sequenceFetchesTotal.WithLabelValues("success").Inc()

	return &SequenceRecord{
		Address:       address,
		AccountNumber: account.GetAccountNumber(),
		Sequence:      account.GetSequence(),
	}, nil
}
