// Package app wires the application together: logger construction, the
// package index, the description registry, resolution, and the handoff to
// either the dry-run printer or the supervisor.
package app
