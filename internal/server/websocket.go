package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
	"github.com/zerodeaths/zerodeaths/pkg/generic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var _ events.Observer = (*EventFeed)(nil)

var buffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// encode renders msg as one JSON line without the trailing newline. The
// returned slice is not shared with the pool.
func encode(msg Message) ([]byte, error) {
	buf := buffers.Get()
	defer buffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}
	return bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})), nil
}

// Message is one published event as a feed client sees it.
type Message struct {
	Seq      uint64         `json:"seq"`
	Category string         `json:"category"`
	Action   string         `json:"action"`
	Source   string         `json:"source,omitempty"`
	Actor    string         `json:"actor,omitempty"`
	Payload  events.Payload `json:"payload,omitempty"`
}

// FeedConfig sizes the event feed.
type FeedConfig struct {
	MaxClients   int
	ClientBuffer int // queued messages per client before it is dropped
	History      int // recent messages replayed to new clients
	WriteTimeout time.Duration
}

type encoded struct {
	category events.Category
	data     []byte
}

type feedClient struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	filter map[events.Category]bool
	done   chan struct{}
	once   sync.Once
}

func (c *feedClient) wants(cat events.Category) bool {
	return c.filter == nil || c.filter[cat]
}

// EventFeed streams every published event to websocket clients as JSON.
// Publishing never blocks on a client: one whose queue is full is dropped.
type EventFeed struct {
	cfg FeedConfig

	mu      sync.Mutex
	clients map[string]*feedClient
	history []encoded
	seq     uint64
	closed  bool

	wg     sync.WaitGroup
	logger log.Log
}

func NewEventFeed(cfg FeedConfig, logger log.Log) *EventFeed {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = time.Second
	}
	return &EventFeed{
		cfg:     cfg,
		clients: make(map[string]*feedClient),
		logger:  logger.With(log.String("component", "event_feed")),
	}
}

// OnPublish encodes e on the publishing goroutine and queues it for every
// interested client.
func (f *EventFeed) OnPublish(e events.Event) {
	msg := Message{
		Category: e.Category.String(),
		Action:   e.Action.String(),
		Source:   e.Source,
		Payload:  e.Payload,
	}
	if ref, ok := events.PayloadAs[events.ActorRef](e); ok && ref.Actor != nil {
		msg.Actor = ref.Actor.ID()
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.seq++
	msg.Seq = f.seq
	b, err := encode(msg)
	if err != nil {
		f.mu.Unlock()
		f.logger.Warn("event not encodable", log.Stringer("event", e), log.Error(err))
		return
	}
	if f.cfg.History > 0 {
		f.history = append(f.history, encoded{category: e.Category, data: b})
		if len(f.history) > f.cfg.History {
			f.history = f.history[len(f.history)-f.cfg.History:]
		}
	}
	var slow []*feedClient
	for _, c := range f.clients {
		if !c.wants(e.Category) {
			continue
		}
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	f.mu.Unlock()

	for _, c := range slow {
		f.drop(c, "client too slow")
	}
}

func (f *EventFeed) OnDelivered(events.Event, int, error, time.Duration) {}

// Clients is the number of connected clients.
func (f *EventFeed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// ServeHTTP upgrades the request and subscribes the connection. The optional
// "category" query parameter is a comma separated list of category names.
func (f *EventFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCategories(r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	full := f.cfg.MaxClients > 0 && len(f.clients) >= f.cfg.MaxClients
	closed := f.closed
	f.mu.Unlock()
	if closed {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	if full {
		f.logger.Warn("rejecting feed client", log.String("remote_addr", r.RemoteAddr), log.Error(ErrMaxClientsReached))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Debug("websocket upgrade failed", log.Error(err))
		return
	}
	c := &feedClient{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, f.cfg.ClientBuffer),
		filter: filter,
		done:   make(chan struct{}),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = conn.Close()
		return
	}
	f.clients[c.id] = c
	// Add under the lock: Close marks the feed closed before it waits.
	f.wg.Add(2)
	replay := f.history
	if len(replay) > f.cfg.ClientBuffer {
		replay = replay[len(replay)-f.cfg.ClientBuffer:]
	}
	for _, m := range replay {
		if c.wants(m.category) {
			c.send <- m.data
		}
	}
	n := len(f.clients)
	f.mu.Unlock()

	f.logger.Info("feed client connected",
		log.String("client_id", c.id),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int("total_clients", n),
	)

	go f.writeLoop(c)
	go f.readLoop(c)
}

func (f *EventFeed) writeLoop(c *feedClient) {
	defer f.wg.Done()
	defer c.conn.Close()
	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(f.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				f.drop(c, "write failed")
				return
			}
		case <-c.done:
			deadline := time.Now().Add(f.cfg.WriteTimeout)
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
	}
}

// readLoop discards client messages; it exists to notice disconnects.
func (f *EventFeed) readLoop(c *feedClient) {
	defer f.wg.Done()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			f.drop(c, "client closed")
			return
		}
	}
}

func (f *EventFeed) drop(c *feedClient, reason string) {
	c.once.Do(func() {
		f.mu.Lock()
		delete(f.clients, c.id)
		n := len(f.clients)
		f.mu.Unlock()
		close(c.done)
		f.logger.Info("feed client disconnected",
			log.String("client_id", c.id),
			log.String("reason", reason),
			log.Int("total_clients", n),
		)
	})
}

// Close disconnects every client and waits for their goroutines.
func (f *EventFeed) Close() {
	f.mu.Lock()
	f.closed = true
	clients := make([]*feedClient, 0, len(f.clients))
	for _, c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.Unlock()

	for _, c := range clients {
		f.drop(c, "feed closed")
		// Unblocks readLoop.
		_ = c.conn.Close()
	}
	f.wg.Wait()
}

func parseCategories(q string) (map[events.Category]bool, error) {
	if q == "" {
		return nil, nil
	}
	known := make(map[string]events.Category)
	for _, c := range events.Categories() {
		known[c.String()] = c
	}
	filter := make(map[events.Category]bool)
	for _, name := range strings.Split(q, ",") {
		c, ok := known[strings.TrimSpace(name)]
		if !ok {
			return nil, oops.Code("UNKNOWN_CATEGORY").With("category", name).Errorf("unknown category %q", name)
		}
		filter[c] = true
	}
	return filter, nil
}
