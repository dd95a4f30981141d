package deps

import (
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/gate"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/metrics"
	"github.com/MrSnakeDoc/linkvault/internal/share"
	"github.com/MrSnakeDoc/linkvault/internal/storage"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to access /api
	AllowedCIDRS  []string         // IPs allowed to access readyz and metrics
	TrustProxy    bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins   []string         // origins allowed by the CORS middleware (empty = no CORS headers)
	UnlockBurst   int              // unlock attempts allowed at once per client IP
	UnlockPerMin  int              // unlock attempts refilled per minute per client IP
	Links         *links.Service   // link lifecycle
	Gate          *gate.Gate       // app lock
	Inbox         *share.Inbox     // pending share draft
	Metrics       *metrics.Metrics // nil disables /metrics
	Storage       storage.Storage  // backend, probed by readyz and status
	StorageKind   string           // file, memory, redis, sqlite or postgres
	ImportTrigger chan struct{}    // manual homepage import (nil if import disabled)
}
