package model

// Version is overridden at build time with -ldflags "-X coursehost/internal/model.Version=...".
var Version = "0.1.0-dev"

// AppName is used for the resource directory lookup and log prefixes.
const AppName = "coursehost"
