// Package wsbridge connects the controller to a live vehicle over websockets. Clients push
// poses in and receive steering and throttle commands back.
package wsbridge

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"golang.org/x/time/rate"

	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/spatialmath"
	"github.com/jetracer/goalnav/utils"
)

// Topics published to clients.
const (
	TopicSteering = "steering"
	TopicThrottle = "throttle"
)

const (
	poseQueueSize  = 16
	sendQueueSize  = 64
	pingPeriod     = 30 * time.Second
	writeWait      = 5 * time.Second
	maxMessageSize = 4096
	warnInterval   = 5 * time.Second
)

// ErrClosed is returned when publishing on a closed server.
var ErrClosed = errors.New("websocket bridge closed")

// PoseMessage is a pose pushed by a client.
type PoseMessage struct {
	Position struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"position"`
	Orientation struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
		W float64 `json:"w"`
	} `json:"orientation"`
}

// Pose converts the message to a spatialmath.Pose. A missing orientation is treated as
// the identity rotation.
func (m PoseMessage) Pose() spatialmath.Pose {
	o := m.Orientation
	q := spatialmath.NewQuaternion(o.X, o.Y, o.Z, o.W)
	if o.X == 0 && o.Y == 0 && o.Z == 0 && o.W == 0 {
		q = spatialmath.NewZeroOrientation()
	}
	return spatialmath.NewPose(r3.Vector{X: m.Position.X, Y: m.Position.Y, Z: m.Position.Z}, q)
}

// CommandMessage is a single scalar command sent to every client.
type CommandMessage struct {
	Topic string  `json:"topic"`
	Value float64 `json:"value"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	id   string
}

// Server is a websocket endpoint that acts as both the pose source and the actuator of a run.
type Server struct {
	logger   logging.Logger
	upgrader websocket.Upgrader
	workers  utils.StoppableWorkers
	poses    chan spatialmath.Pose

	// malformedWarn and dropWarn throttle warnings a misbehaving client could flood the log with.
	malformedWarn rate.Sometimes
	dropWarn      rate.Sometimes

	mu         sync.Mutex
	clients    map[*client]struct{}
	closed     bool
	done       chan struct{}
	httpServer *http.Server
	listener   net.Listener
}

// NewServer returns a Server. It can be mounted as an http.Handler or started with Listen.
// A nil logger logs through the global logger.
func NewServer(logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Global().Sublogger("bridge")
	}
	return &Server{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		workers:       utils.NewStoppableWorkers(),
		poses:         make(chan spatialmath.Pose, poseQueueSize),
		malformedWarn: rate.Sometimes{Interval: warnInterval},
		dropWarn:      rate.Sometimes{Interval: warnInterval},
		clients:       map[*client]struct{}{},
		done:          make(chan struct{}),
	}
}

// Listen binds address and serves websocket connections on it in the background.
func (s *Server) Listen(address string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	httpServer := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		goutils.UncheckedError(ln.Close())
		return ErrClosed
	}
	s.httpServer = httpServer
	s.listener = ln
	s.mu.Unlock()

	s.logger.Infow("websocket bridge listening", "address", ln.Addr().String())
	s.workers.AddWorkers(func(ctx context.Context) {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("websocket bridge stopped serving", "error", err)
		}
	})
	return nil
}

// Addr returns the listening address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ServeHTTP upgrades the request to a websocket and serves it until the peer goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	c := &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
		id:   r.RemoteAddr,
	}
	if !s.register(c) {
		s.logger.Debugw("rejecting client on closed bridge", "remote", c.id)
		goutils.UncheckedErrorFunc(conn.Close)
		return
	}
	s.workers.AddWorkers(func(ctx context.Context) {
		s.writeLoop(ctx, c)
	})

	s.readLoop(c)
	s.unregister(c)
}

func (s *Server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.clients[c] = struct{}{}
	s.logger.Infow("client connected", "remote", c.id)
	return true
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.done)
	s.logger.Infow("client disconnected", "remote", c.id)
}

func (s *Server) readLoop(c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugw("read error", "remote", c.id, "error", err)
			}
			return
		}
		var msg PoseMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.malformedWarn.Do(func() {
				s.logger.Warnw("dropping malformed pose", "remote", c.id, "error", err)
			})
			continue
		}
		s.pushPose(msg.Pose())
	}
}

// pushPose queues pose for NextPose. When the queue is full the oldest pose is dropped so
// the controller always catches up to the newest data.
func (s *Server) pushPose(pose spatialmath.Pose) {
	for {
		select {
		case s.poses <- pose:
			return
		default:
		}
		select {
		case <-s.poses:
			s.logger.Debug("pose queue full, dropping oldest pose")
		default:
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		goutils.UncheckedErrorFunc(c.conn.Close)
	}()
	for {
		select {
		case <-ctx.Done():
			goutils.UncheckedError(c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "controller stopping"),
				time.Now().Add(writeWait),
			))
			return
		case <-c.done:
			return
		case msg := <-c.send:
			goutils.UncheckedError(c.conn.SetWriteDeadline(time.Now().Add(writeWait)))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debugw("write error", "remote", c.id, "error", err)
				return
			}
		case <-ticker.C:
			goutils.UncheckedError(c.conn.SetWriteDeadline(time.Now().Add(writeWait)))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// NextPose blocks until a client pushes a pose. It returns io.EOF once the server is closed.
func (s *Server) NextPose(ctx context.Context) (spatialmath.Pose, error) {
	select {
	case <-ctx.Done():
		return spatialmath.Pose{}, ctx.Err()
	case <-s.done:
		return spatialmath.Pose{}, io.EOF
	case pose := <-s.poses:
		return pose, nil
	}
}

// SetSteering sends a steering command to every connected client.
func (s *Server) SetSteering(ctx context.Context, value float64) error {
	return s.broadcast(CommandMessage{Topic: TopicSteering, Value: value})
}

// SetThrottle sends a throttle command to every connected client.
func (s *Server) SetThrottle(ctx context.Context, value float64) error {
	return s.broadcast(CommandMessage{Topic: TopicThrottle, Value: value})
}

// broadcast never blocks. A client whose queue is full misses the message.
func (s *Server) broadcast(msg CommandMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s command", msg.Topic)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.dropWarn.Do(func() {
				s.logger.Warnw("client send queue full, dropping command", "remote", c.id, "topic", msg.Topic)
			})
		}
	}
	return nil
}

// NumClients returns the number of connected clients.
func (s *Server) NumClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client, stops listening, and makes NextPose return io.EOF.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	httpServer := s.httpServer
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	var err error
	if httpServer != nil {
		err = httpServer.Close()
	}
	s.workers.Stop()
	// Hijacked connections outlive the http.Server; closing them ends their read loops.
	for _, c := range clients {
		goutils.UncheckedError(c.conn.Close())
	}
	return err
}
