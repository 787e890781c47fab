// Package build holds values set at link time.
package build

// Version of bggen, overridden with -ldflags "-X github.com/xob0t/bggen/internal/build.Version=...".
var Version = "0.0.0"
