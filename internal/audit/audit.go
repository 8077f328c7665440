package audit

import (
	"context"
	"log"
	"sync"
	"time"
)

type Event struct {
	Action string
	UserID string
	At     time.Time
	Meta   map[string]string
}

type Sink interface {
	Write(ctx context.Context, e Event)
}

// LogSink writes events through the standard logger.
type LogSink struct{}

func (LogSink) Write(_ context.Context, e Event) {
	log.Printf("audit action=%s user_id=%s at=%s meta=%v", e.Action, e.UserID, e.At.Format(time.RFC3339), e.Meta)
}

// Dispatcher delivers events to a sink on a background goroutine so emitting
// never blocks an auth decision. Events are dropped when the buffer is full.
// A nil *Dispatcher is valid and discards everything.
type Dispatcher struct {
	sink      Sink
	ch        chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewDispatcher(sink Sink, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	d := &Dispatcher{
		sink: sink,
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case e := <-d.ch:
			d.sink.Write(context.Background(), e)
		case <-d.done:
			// drain what is already buffered
			for {
				select {
				case e := <-d.ch:
					d.sink.Write(context.Background(), e)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) Emit(e Event) {
	if d == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case d.ch <- e:
	case <-d.done:
	default:
	}
}

// Close stops the worker after flushing buffered events.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}
