package version

import (
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X github.com/MrSnakeDoc/nextdir/internal/version.Version=...".
var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: 9f1c2ab
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-19T09:12:00Z
	GoVersion = runtime.Version()
)
