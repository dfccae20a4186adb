// Package services implements the driving port interfaces.
// It contains the federated search core: the per-source worker lifecycle,
// the generation-gated result sink, the selection set and the redraw
// wake channel.
//
// Services are pure Go and depend only on domain and the port packages.
package services
