package api

import _ "embed"

// dashboardHTML is the live log dashboard, embedded so the server
// binary is self-contained.
//
//go:embed dashboard.html
var dashboardHTML []byte
