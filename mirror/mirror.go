// Package mirror forwards voice pitches and global scale changes to a
// websocket peer, without ever blocking the caller.
package mirror

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rapidmidiex/lambvoice/pitch"
	"github.com/rapidmidiex/lambvoice/voice"
	"github.com/rapidmidiex/lambvoice/wsmsg"
)

const DefaultQueue = 64

type Mirror struct {
	conn *websocket.Conn
	out  chan wsmsg.Envelope
	// Main frequency per voice, waiting for its sub frequency.
	// Only touched from the caller's goroutine.
	pending map[int]float64
	dropped atomic.Int64
	done    chan struct{}
	once    sync.Once
	log     *log.Logger
}

// Dial connects to url and starts mirroring.
func Dial(ctx context.Context, url string) (*Mirror, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("mirror dial %s: %w", url, err)
	}
	return New(ws, DefaultQueue), nil
}

// New mirrors over an open connection. At most queue messages wait to be
// written; further ones are dropped.
func New(conn *websocket.Conn, queue int) *Mirror {
	if queue <= 0 {
		queue = DefaultQueue
	}
	m := &Mirror{
		conn:    conn,
		out:     make(chan wsmsg.Envelope, queue),
		pending: make(map[int]float64),
		done:    make(chan struct{}),
		log:     log.Default(),
	}
	go m.run()
	return m
}

// SetFrequency implements voice.Sink. The message goes out with the sub frequency.
func (m *Mirror) SetFrequency(voice int, hz float64) {
	m.pending[voice] = hz
}

// SetSubFrequency implements voice.Sink.
func (m *Mirror) SetSubFrequency(voice int, hz float64) {
	main := m.pending[voice]
	msg := wsmsg.PitchMsg{Frequency: main, SubFrequency: hz}
	if p, err := pitch.FromFrequency(main); err == nil && pitch.InRange(p) {
		msg.Note = pitch.Name(p)
	}
	env, err := wsmsg.New(wsmsg.PITCH, voice, msg)
	if err != nil {
		m.log.Printf("mirror: marshal PitchMsg: %v", err)
		return
	}
	m.send(env)
}

// SetShared sends the global scale and root. Register it with the selector.
func (m *Mirror) SetShared(shared voice.Shared) {
	env, err := wsmsg.New(wsmsg.SCALE, 0, wsmsg.ScaleMsg{Scale: shared.Scale, Root: shared.Root})
	if err != nil {
		m.log.Printf("mirror: marshal ScaleMsg: %v", err)
		return
	}
	m.send(env)
}

// Next blocks until the peer sends an envelope.
func (m *Mirror) Next() (wsmsg.Envelope, error) {
	var env wsmsg.Envelope
	if err := m.conn.ReadJSON(&env); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			return env, fmt.Errorf("readJSON: unexpected close: %w", err)
		}
		return env, fmt.Errorf("readJSON: %w", err)
	}
	return env, nil
}

// Dropped counts messages discarded because the queue was full.
func (m *Mirror) Dropped() int64 {
	return m.dropped.Load()
}

// Close sends a close frame and stops the writer.
func (m *Mirror) Close() error {
	var err error
	m.once.Do(func() {
		close(m.done)
		err = m.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		if cerr := m.conn.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

func (m *Mirror) send(env wsmsg.Envelope) {
	select {
	case <-m.done:
		return
	default:
	}
	select {
	case m.out <- env:
	default:
		if m.dropped.Add(1) == 1 {
			m.log.Printf("mirror: queue full, dropping updates")
		}
	}
}

func (m *Mirror) run() {
	for {
		select {
		case <-m.done:
			return
		case env := <-m.out:
			if err := m.conn.WriteJSON(env); err != nil {
				m.log.Printf("mirror: writeJSON: %v", err)
				return
			}
		}
	}
}
