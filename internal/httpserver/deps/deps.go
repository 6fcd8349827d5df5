package deps

import (
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/catalog"
	"github.com/MrSnakeDoc/nextdir/internal/directory"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/preview"
	"github.com/MrSnakeDoc/nextdir/internal/scheduler"
	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/MrSnakeDoc/nextdir/internal/submission"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed to access admin endpoints
	AllowedCIDRS   []string         // IPs allowed to access readyz/infra/reload
	AllowedOrigins []string         // CORS origins of the browser front-end
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Store       store.RecordStore   // backing record store, pinged by readyz
	Catalog     catalog.Fetcher     // approved catalog reader
	CatalogWait time.Duration       // how long infra waits for a catalog load, 0 means 2s
	Submissions *submission.Service // resource submissions
	Directories *directory.Service  // directory CRUD
	Previews    *preview.Fetcher    // link previews for the submit form

	Verifier     *auth.Verifier
	Sessions     *auth.Sessions
	AuthLoginURL string // external login page
	CookieSecure bool   // Secure flag on the session cookie

	SubmitBurst        int // token bucket size for submissions and previews
	SubmitRefillPerMin int

	Seed          *scheduler.SeedImporter // nil when no seed file is configured
	ReloadTrigger chan struct{}           // manual seed import, nil when disabled
}
