// Package cli holds the top-level promptdial commands.
package cli

// OfflineAnnotation marks commands that run without a reachable server.
const OfflineAnnotation = "promptdial/offline"
