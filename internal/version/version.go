package version

import (
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X github.com/MrSnakeDoc/linkvault/internal/version.Version=...".
var (
	Version   = "dev"                           // ex: v2.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-18T09:12:00Z
	GoVersion = runtime.Version()               // go version
)

// String renders the one-line build banner used by the CLI and the logs.
func String() string {
	return "linkvault " + Version + " (commit=" + Commit + ", built=" + BuildDate + ", go=" + GoVersion + ")"
}
