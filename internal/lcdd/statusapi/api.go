// Package statusapi is the read-only operator-facing HTTP surface from
// spec section D: server/scheduler/client/screen status plus a debug
// frame stream, built with gin exactly the way internal/jvp/api/api.go
// builds its engine. It never participates in the core loop's
// single-threaded correctness argument — it only ever reads a Snapshot
// the loop publishes by pointer swap at the end of each frame.
package statusapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/lcdd/lcdd/internal/lcdd/metrics"
	"github.com/rs/zerolog"
)

// API is a second grace.Grace member of the same shepherd that runs the
// protocol Server, exactly mirroring how jvp.go supervises s.api.
type API struct {
	engine *http.Server
	router *gin.Engine

	snapshot atomic.Pointer[Snapshot]
	store    *metrics.Store
	hub      *frameHub
	log      *zerolog.Logger
}

// New builds an API bound to addr, reading operational history from
// store (nil disables /metrics/history, returning an empty history rather
// than an error, since the status API must never depend on the protocol
// path to be useful).
func New(addr string, store *metrics.Store, log *zerolog.Logger) *API {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	a := &API{
		router: router,
		store:  store,
		hub:    newFrameHub(log),
		log:    log,
	}
	a.snapshot.Store(&Snapshot{})

	a.registerRoutes(router)

	printRoutes(router)

	a.engine = &http.Server{Addr: addr, Handler: router}
	return a
}

// printRoutes mirrors api.go's startup route listing (method + path only).
func printRoutes(engine *gin.Engine) {
	routes := engine.Routes()
	if len(routes) == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "\n[Status API Routes]\n")
	fmt.Fprintf(os.Stdout, "Method   Path\n")
	fmt.Fprintf(os.Stdout, "----------------------------\n")
	for _, route := range routes {
		fmt.Fprintf(os.Stdout, "%-8s %s\n", route.Method, route.Path)
	}
	fmt.Fprintf(os.Stdout, "\n")
}

// PublishSnapshot installs the latest server-state snapshot, called once
// per frame by the core loop after it finishes mutating state.
func (a *API) PublishSnapshot(snap *Snapshot) {
	a.snapshot.Store(snap)
}

// PublishFrame fans the rendered character buffer out to any attached
// /ws/frame subscribers. A no-op with zero subscribers (spec section D:
// "the renderer works identically with zero subscribers").
func (a *API) PublishFrame(snap FrameSnapshot) {
	a.hub.publish(snap)
}

func (a *API) currentSnapshot() *Snapshot {
	return a.snapshot.Load()
}

// Run implements grace.Grace, identical in shape to api.API.Run.
func (a *API) Run(ctx context.Context) error {
	if a.engine.Addr == "" {
		// An empty address leaves the status API unserved.
		<-ctx.Done()
		return nil
	}
	errCh := make(chan error, 1)
	go func() {
		if err := a.engine.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown implements grace.Grace.
func (a *API) Shutdown(ctx context.Context) error {
	return a.engine.Shutdown(ctx)
}

// Name implements grace.Grace.
func (a *API) Name() string {
	return "LCDd Status API"
}
