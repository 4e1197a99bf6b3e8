// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"sync"

	"github.com/dposchain/ledger/dpos"
	"github.com/ethereum/go-ethereum/event"
)

// EventKind classifies processor events.
type EventKind int

const (
	// EventColdWallet a wallet was created because it was first seen as a recipient.
	EventColdWallet EventKind = iota
)

func (k EventKind) String() string {
	switch k {
	case EventColdWallet:
		return "cold-wallet"
	}
	return "unknown"
}

// Event is emitted alongside a ledger mutation.
type Event struct {
	Kind    EventKind
	Address dpos.Address
	TxID    dpos.Bytes32
}

// Sink receives processor events. Emit must not block the caller.
type Sink interface {
	Emit(ev *Event)
}

type discardSink struct{}

func (discardSink) Emit(*Event) {}

// EventLog keeps emitted events in memory.
type EventLog struct {
	mu     sync.Mutex
	events []*Event
}

// Emit implements Sink.
func (l *EventLog) Emit(ev *Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

// Events returns the events recorded so far.
func (l *EventLog) Events() []*Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Event(nil), l.events...)
}

// Reset drops recorded events.
func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// FeedSink delivers events to subscribers. Sends run in their own goroutine.
type FeedSink struct {
	feed  event.Feed
	scope event.SubscriptionScope
	wg    sync.WaitGroup
}

// Emit implements Sink.
func (s *FeedSink) Emit(ev *Event) {
	s.wg.Go(func() {
		s.feed.Send(ev)
	})
}

// Subscribe registers ch to receive events.
func (s *FeedSink) Subscribe(ch chan *Event) event.Subscription {
	return s.scope.Track(s.feed.Subscribe(ch))
}

// Close unsubscribes everyone and waits for pending sends.
func (s *FeedSink) Close() {
	s.scope.Close()
	s.wg.Wait()
}

// Sinks fans events out to several sinks.
type Sinks []Sink

// Emit implements Sink.
func (ss Sinks) Emit(ev *Event) {
	for _, s := range ss {
		s.Emit(ev)
	}
}
