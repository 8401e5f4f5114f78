package common

var (
	// Version is set at build time with -ldflags.
	Version = "dev"

	// PackageName is used as the metrics namespace.
	PackageName = "getipfs"
)
