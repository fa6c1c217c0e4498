package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/quoteboard/pkg/component"
	"github.com/vango-dev/quoteboard/pkg/node"
)

// session is one browser connection. It is the render target of its
// host's components.
type session struct {
	conn   *websocket.Conn
	host   *component.Host
	logger *slog.Logger
	config sessionConfig

	out chan []byte

	// sent is the last HTML pushed per component. Loop-owned.
	sent map[uint64]string

	done      chan struct{}
	closeOnce sync.Once
}

type sessionConfig struct {
	WriteTimeout      time.Duration
	ReadTimeout       time.Duration
	HeartbeatInterval time.Duration
	MaxPending        int
}

var (
	_ component.RenderTarget = (*session)(nil)
	_ component.Detacher     = (*session)(nil)
)

func newSession(conn *websocket.Conn, host *component.Host, config sessionConfig, logger *slog.Logger) *session {
	return &session{
		conn:   conn,
		host:   host,
		logger: logger,
		config: config,
		out:    make(chan []byte, config.MaxPending),
		sent:   make(map[uint64]string),
		done:   make(chan struct{}),
	}
}

// Apply implements component.RenderTarget. A tree whose HTML equals the
// last one sent for the component is not resent.
func (s *session) Apply(c *component.Component, tree *node.Node) error {
	html := node.HTML(tree)
	if prev, ok := s.sent[c.ID()]; ok && prev == html {
		return nil
	}
	if err := s.send(RenderFrame{Type: FrameRender, ID: c.Key(), Tag: c.Tag(), HTML: html}); err != nil {
		return err
	}
	s.sent[c.ID()] = html
	return nil
}

// Detach implements component.Detacher.
func (s *session) Detach(c *component.Component) {
	delete(s.sent, c.ID())
	if err := s.send(RenderFrame{Type: FrameRemove, ID: c.Key()}); err != nil {
		s.logger.Debug("remove frame dropped", "id", c.Key(), "error", err)
	}
}

func (s *session) send(f RenderFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	select {
	case s.out <- data:
		return nil
	case <-s.done:
		return errSessionClosed
	default:
		// A client this far behind can't be patched back in sync.
		s.logger.Warn("outbound queue full, closing session")
		s.Close()
		return errSessionClosed
	}
}

// Close ends the session. It is safe to call more than once.
func (s *session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// ReadLoop reads event frames until the connection closes.
func (s *session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		return nil
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var ev EventFrame
		if err := json.Unmarshal(msg, &ev); err != nil {
			s.logger.Warn("frame decode error", "error", err)
			continue
		}
		if !s.host.Dispatch(func() { s.handleEvent(ev) }) {
			s.logger.Warn("event dropped", "event", ev.Event)
		}
	}
}

// WriteLoop writes queued frames and heartbeats until the session closes.
func (s *session) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()
	defer s.Close()

	for {
		select {
		case data := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("write error", "error", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

// handleEvent routes an inbound event to its handler. Runs on the loop,
// where handler panics are recovered.
func (s *session) handleEvent(ev EventFrame) {
	if ev.Event == EventOpen {
		s.open(ev.Tag)
		return
	}

	id, err := strconv.ParseUint(ev.ID, 10, 64)
	if err != nil {
		s.logger.Warn("bad component id", "id", ev.ID)
		return
	}
	c, ok := s.host.Find(id)
	if !ok {
		s.logger.Debug("event for unmounted component", "id", ev.ID)
		return
	}
	handler, ok := node.FindHandler(c.LastTree(), ev.HID, ev.Event)
	if !ok {
		s.logger.Warn("no handler", "id", ev.ID, "hid", ev.HID, "event", ev.Event)
		return
	}
	handler(node.Event{Type: ev.Event, Value: ev.Value})
}

func (s *session) open(tag string) {
	for _, c := range s.host.Components() {
		if c.Tag() != tag {
			continue
		}
		if o, ok := c.Widget().(Opener); ok {
			o.Open()
			return
		}
	}
	s.logger.Warn("nothing to open", "tag", tag)
}
