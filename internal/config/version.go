package config

// Version is the listings binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/listings/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
