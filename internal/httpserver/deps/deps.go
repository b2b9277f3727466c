package deps

import (
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/index"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
	redisstore "github.com/MrSnakeDoc/linkdeck/internal/store/redis"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time   // for testing, defaults to time.Now
	AllowedHosts    []string           // Host headers allowed to access the server
	AllowedCIDRS    []string           // IPs allowed to access the operational endpoints
	TrustProxy      bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	LinksDir        string             // Directory of the links collection
	Store           *redisstore.Store  // Redis mirror, nil when Redis is disabled
	MemoryIndex     *index.MemoryIndex // In-memory link index
	FallbackURL     string             // Where search redirects when nothing matches
	ProbeTimeout    time.Duration      // Timeout for the liveness probe of a search candidate
	SkipProbe       bool               // Skip the liveness probe (useful for dev/local)
	MaxCandidates   int                // Max number of candidates to probe
	ReloadTrigger   chan struct{}      // Channel to trigger a manual links reload
	RateLimitBurst  int                // Validate endpoint bucket size
	RateLimitRefill time.Duration      // Validate endpoint refill period per request
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
