package statusapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lcdd/lcdd/internal/lcdd/metrics"
	"github.com/lcdd/lcdd/pkg/ginx"
	"github.com/rs/zerolog"
)

// upgrader mirrors console_ws.go's websocket.Upgrader: generous buffers
// for a steady stream of small JSON frames, origin checking left open
// since this endpoint is loopback-only by default (spec section D).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  32768,
	WriteBufferSize: 32768,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (a *API) registerRoutes(router *gin.Engine) {
	router.GET("/status", ginx.Adapt3(a.handleStatus))
	router.GET("/clients", ginx.Adapt3(a.handleClients))
	router.GET("/screens", ginx.Adapt3(a.handleScreens))
	router.GET("/metrics/history", ginx.Adapt3(a.handleMetricsHistory))
	router.GET("/ws/frame", ginx.Adapt0(a.handleFrameWS))
}

func (a *API) handleStatus(ctx *gin.Context) (*Snapshot, error) {
	return a.currentSnapshot(), nil
}

func (a *API) handleClients(ctx *gin.Context) ([]ClientSummary, error) {
	return a.currentSnapshot().Clients, nil
}

func (a *API) handleScreens(ctx *gin.Context) ([]ScreenSummary, error) {
	return a.currentSnapshot().Screens, nil
}

// metricsHistoryResponse bundles both history tables into one response,
// the simplest shape for an endpoint nobody paginates (spec section D:
// "recent frame-lag samples and scheduler switch events").
type metricsHistoryResponse struct {
	LagSamples   []metrics.LagSample   `json:"lag_samples"`
	SwitchEvents []metrics.SwitchEvent `json:"switch_events"`
}

const metricsHistoryLimit = 200

func (a *API) handleMetricsHistory(ctx *gin.Context) (*metricsHistoryResponse, error) {
	if a.store == nil {
		return &metricsHistoryResponse{}, nil
	}
	lag, err := a.store.RecentLagSamples(ctx.Request.Context(), metricsHistoryLimit)
	if err != nil {
		return nil, err
	}
	switches, err := a.store.RecentSwitchEvents(ctx.Request.Context(), metricsHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &metricsHistoryResponse{LagSamples: lag, SwitchEvents: switches}, nil
}

// handleFrameWS upgrades to a websocket and streams FrameSnapshots until
// the peer disconnects (spec section D: "debug/monitoring use only").
func (a *API) handleFrameWS(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx.Request.Context())
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("failed to upgrade /ws/frame connection")
		return
	}

	sub := a.hub.subscribe(conn)
	defer a.hub.unsubscribe(sub)
	sub.run()
}
