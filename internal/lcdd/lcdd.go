// Package lcdd assembles the core subsystems into a running server (spec
// sections 5 and 9): the single-threaded frame loop that interleaves
// socket I/O, command dispatch, scheduling, input routing and rendering.
// It is the composition root: the one place that owns every subsystem
// and exposes a grace.Grace to the process's shepherd.
package lcdd

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lcdd/lcdd/internal/lcdd/client"
	"github.com/lcdd/lcdd/internal/lcdd/config"
	"github.com/lcdd/lcdd/internal/lcdd/connid"
	"github.com/lcdd/lcdd/internal/lcdd/driver"
	"github.com/lcdd/lcdd/internal/lcdd/input"
	"github.com/lcdd/lcdd/internal/lcdd/menu"
	"github.com/lcdd/lcdd/internal/lcdd/metrics"
	"github.com/lcdd/lcdd/internal/lcdd/proto"
	"github.com/lcdd/lcdd/internal/lcdd/render"
	"github.com/lcdd/lcdd/internal/lcdd/scheduler"
	"github.com/lcdd/lcdd/internal/lcdd/screen"
	"github.com/lcdd/lcdd/internal/lcdd/statusapi"
	"github.com/lcdd/lcdd/internal/lcdd/wire"
	"github.com/rs/zerolog"
)

// processFreq is PROCESS_FREQ from spec section 5: 32 frames/second, i.e.
// a frame_interval of 1/32 s.
const processFreq = 32

const frameInterval = time.Second / processFreq

// maxRenderLagFrames bounds how many frames the loop tries to "catch up"
// before it gives up pacing and lets rendering itself set the pace (spec
// section 5: "Lag control").
const maxRenderLagFrames = 16

// outBufLines bounds each connection's queued outbound lines before the
// backpressure policy in wire.Conn starts dropping writes.
const outBufLines = 256

// drainTimeout is the "drain deadline of one frame" a GONE client's
// outbound buffer gets flushed against (spec section 4.4).
const drainTimeout = frameInterval

// connEvent is one line read from a connection, fed into the loop's
// single event channel so Dispatch only ever runs on the loop goroutine
// (spec section 9: "no locks are needed; correctness derives from the
// single-threaded model").
type connEvent struct {
	conn *client.Client
	line string
	err  error
}

// Server owns every core subsystem and the frame loop, implementing
// grace.Grace the way jvp.Server does for its own services.
type Server struct {
	cfg *config.Config
	log *zerolog.Logger

	drv   driver.Driver
	sched *scheduler.Scheduler
	in    *input.Table
	menu  *menu.Tree
	nav   *menu.Navigator
	proto *proto.Server
	rend  *render.Renderer

	ids *connid.Generator

	metrics *metrics.Store
	status  *statusapi.API

	listener net.Listener
	events   chan connEvent
	conns    map[uint64]*wire.Conn

	// nextID mints Client ids (spec section 3: a Client's "unique id" is
	// the socket handle). handleConn runs on a per-connection goroutine,
	// not the loop goroutine, so this is the one piece of Server state
	// that isn't protected by the single-threaded model and needs its
	// own atomic increment instead.
	nextID atomic.Uint64

	startedAt time.Time
}

// New builds a Server wired to cfg. It does not yet listen or render;
// call Run to start the loop.
func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	if cfg.DriverName != "text" {
		return nil, fmt.Errorf("unknown driver %q", cfg.DriverName)
	}
	drv := driver.NewText(20, 4, 5, 8)
	if err := drv.Init(); err != nil {
		return nil, fmt.Errorf("init driver: %w", err)
	}

	in := input.New()
	mn := menu.New()
	nav := menu.NewNavigator(mn)

	// proto.Server and scheduler.Scheduler refer to each other (the
	// scheduler notifies clients through the server's client table, the
	// server destroys timed-out screens through the scheduler's
	// Destroyer hook), so the server is constructed first with a nil
	// Scheduler and wired in afterward, the same two-step construction
	// proto_test.go's newServer() uses.
	srv := proto.New(drv, nil, in, mn, nav, &logger)
	sch := scheduler.New(&serverNotifier{srv: srv}, srv)
	srv.Scheduler = sch

	for _, key := range proto.NavigationKeys {
		_ = in.AddShared(key, input.ServerOwner)
	}
	for _, key := range cfg.ExtraKeys {
		_ = in.AddShared(key, input.ServerOwner)
	}

	metricsPath := cfg.DataDir + "/metrics.db"
	store, err := metrics.New(metricsPath)
	if err != nil {
		return nil, fmt.Errorf("open metrics store: %w", err)
	}

	status := statusapi.New(cfg.StatusAddr, store, &logger)

	return &Server{
		cfg:     cfg,
		log:     &logger,
		drv:     drv,
		sched:   sch,
		in:      in,
		menu:    mn,
		nav:     nav,
		proto:   srv,
		rend:    render.New(drv),
		ids:     connid.Default(),
		metrics: store,
		status:  status,
		events:  make(chan connEvent, 64),
		conns:   make(map[uint64]*wire.Conn),
	}, nil
}

// serverNotifier bridges scheduler.Notifier to the live client table,
// exactly as proto_test.go's fake does for tests.
type serverNotifier struct {
	srv *proto.Server
}

func (n *serverNotifier) Notify(clientID uint64, line string) {
	if c, ok := n.srv.Client(clientID); ok {
		c.Send(line)
	}
}

// Run implements grace.Grace: it opens the listener and runs the frame
// loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = ln
	s.startedAt = time.Now()
	s.log.Info().Str("addr", s.cfg.ListenAddr).Msg("lcdd listening")

	go s.acceptLoop(ctx)

	// next is the target wall-clock time for the next frame. The loop
	// sleeps to it when running ahead of schedule; when a frame's real
	// cost pushes it more than maxRenderLagFrames behind, it gives up
	// trying to catch up and resets the target from now instead (spec
	// section 5: "rendering becomes the pacing loop").
	next := time.Now().Add(frameInterval)
	maxLag := time.Duration(maxRenderLagFrames) * frameInterval

	for {
		now := time.Now()
		if wait := next.Sub(now); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
			now = time.Now()
		} else {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
		}

		s.runFrame(next)

		if now.Sub(next) > maxLag {
			next = now.Add(frameInterval)
		} else {
			next = next.Add(frameInterval)
		}
	}
}

// acceptLoop accepts connections and hands each to its own read goroutine
// (spec section 9: socket poll is part of the loop's responsibilities;
// the blocking accept/read itself happens off-loop, feeding the single
// event channel the loop goroutine drains).
func (s *Server) acceptLoop(ctx context.Context) {
	for {
		raw, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				s.log.Warn().Err(err).Msg("accept failed")
				return
			}
		}
		if !s.allowed(raw.RemoteAddr()) {
			_ = raw.Close()
			continue
		}
		go s.handleConn(ctx, raw)
	}
}

func (s *Server) allowed(addr net.Addr) bool {
	if len(s.cfg.AllowList) == 0 {
		return true
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		host = addr.String()
	}
	for _, allowed := range s.cfg.AllowList {
		if host == allowed {
			return true
		}
	}
	return false
}

// handleConn mints a connection id, registers a Client in state NEW, and
// feeds complete lines into the shared event channel until the peer
// disconnects (spec section 4.2).
func (s *Server) handleConn(ctx context.Context, raw net.Conn) {
	corrID, err := s.ids.NextConnectionID()
	if err != nil {
		s.log.Error().Err(err).Msg("mint connection id")
		corrID = "conn-unknown"
	}

	conn := wire.NewConn(raw, outBufLines, s.log)
	connID := s.nextClientID()
	c := client.New(connID, corrID, conn)

	s.events <- connEvent{conn: c}

	for {
		line, err := conn.ReadLine()
		if err == wire.ErrLineTooLong {
			conn.Write("huh? Request too long")
			continue
		}
		if err != nil {
			s.events <- connEvent{conn: c, err: err}
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.events <- connEvent{conn: c, line: line}
	}
}

// runFrame runs one iteration of the loop control flow from spec section
// 5: drain pending connection events, run the scheduler, drain driver key
// events, render, then publish status.
func (s *Server) runFrame(tick time.Time) {
	s.drainEvents()

	prev := s.sched.Current()
	s.sched.Tick()
	if cur := s.sched.Current(); cur != prev {
		s.recordSwitch(cur, prev)
	}

	s.drainKeys()

	if err := s.rend.Render(s.sched.Current()); err != nil {
		s.log.Warn().Err(err).Msg("render failed")
	}

	lag := time.Since(tick)
	s.recordLag(lag)
	s.publishStatus()
}

// drainEvents processes every connection event queued since the last
// frame: new connections, complete lines (dispatched), and
// disconnections (torn down via proto.Server.DropClient).
func (s *Server) drainEvents() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		default:
			return
		}
	}
}

func (s *Server) handleEvent(ev connEvent) {
	if ev.err != nil {
		s.dropClient(ev.conn)
		return
	}
	if ev.line == "" {
		if _, ok := s.proto.Client(ev.conn.ID); !ok {
			s.proto.AddClient(ev.conn)
			if sink, ok := ev.conn.Out.(*wire.Conn); ok {
				s.conns[ev.conn.ID] = sink
			}
		}
		return
	}
	if drop := s.proto.Dispatch(ev.conn, ev.line); drop {
		s.dropClient(ev.conn)
	}
}

func (s *Server) dropClient(c *client.Client) {
	if _, ok := s.proto.Client(c.ID); !ok {
		return
	}
	s.proto.DropClient(c)
	if conn, ok := s.conns[c.ID]; ok {
		_ = conn.Close(drainTimeout)
		delete(s.conns, c.ID)
	}
}

// drainKeys pulls every pending key event off the driver (PollKey is
// non-blocking) and routes it through the protocol server (spec section
// 4.7).
func (s *Server) drainKeys() {
	for {
		key, ok := s.drv.PollKey()
		if !ok {
			return
		}
		s.proto.RouteKey(key)
	}
}

func (s *Server) recordLag(lag time.Duration) {
	if s.metrics == nil {
		return
	}
	sample := metrics.LagSample{
		Frame:     s.sched.Frame(),
		LagMillis: lag.Milliseconds(),
	}
	if err := s.metrics.RecordLag(context.Background(), sample); err != nil {
		s.log.Warn().Err(err).Msg("record lag sample")
	}
}

// recordSwitch logs a scheduler switch_to transition to the metrics
// store. from is the screen that lost focus (nil if none was current
// yet); cur is the screen that gained focus (nil if the list emptied).
func (s *Server) recordSwitch(cur, from *screen.Screen) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordSwitch(context.Background(), s.sched.Frame(), from, cur); err != nil {
		s.log.Warn().Err(err).Msg("record switch event")
	}
}

func (s *Server) publishStatus() {
	if s.status == nil {
		return
	}
	snap := s.buildSnapshot()
	s.status.PublishSnapshot(snap)

	if text, ok := s.drv.(*driver.Text); ok {
		s.status.PublishFrame(statusapi.FrameSnapshot{
			Frame: s.sched.Frame(),
			Rows:  text.Snapshot(),
		})
	}
}

func (s *Server) buildSnapshot() *statusapi.Snapshot {
	cur := s.sched.Current()

	snap := &statusapi.Snapshot{
		Version:       proto.ServerVersion,
		Frame:         s.sched.Frame(),
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		DriverName:    s.cfg.DriverName,
	}
	if cur != nil {
		snap.CurrentScreenID = cur.ID
	}

	for _, c := range s.proto.Clients() {
		ids := make([]string, 0, len(c.Screens()))
		for _, scr := range c.Screens() {
			ids = append(ids, scr.ID)
		}
		snap.Clients = append(snap.Clients, statusapi.ClientSummary{
			ID:        c.ID,
			Name:      c.Name,
			State:     c.State.String(),
			ScreenIDs: ids,
		})
	}

	for _, scr := range s.sched.Screens() {
		snap.Screens = append(snap.Screens, statusapi.ScreenSummary{
			ID:       scr.ID,
			ClientID: scr.ClientID,
			Priority: scr.Priority.String(),
			Current:  scr == cur,
		})
	}

	return snap
}

// nextClientID mints the per-process handle a Client is keyed by. It is a
// simple monotonic counter, distinct from the Sonyflake correlation id
// used for log correlation across restarts, and is safe to call from the
// concurrent per-connection goroutines handleConn runs on.
func (s *Server) nextClientID() uint64 {
	return s.nextID.Add(1)
}

// Shutdown implements grace.Grace.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, conn := range s.conns {
		_ = conn.Close(drainTimeout)
	}
	if s.metrics != nil {
		_ = s.metrics.Close()
	}
	return nil
}

// Name implements grace.Grace.
func (s *Server) Name() string {
	return "LCDd Core Server"
}

// StatusAPI exposes the status HTTP surface so the caller can add it to
// the same shepherd (spec section 9: the status API is a second
// grace.Grace member, per statusapi.API's doc comment).
func (s *Server) StatusAPI() *statusapi.API {
	return s.status
}
