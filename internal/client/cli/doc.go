// Package cli provides the sealdrop command-line client.
//
// It wires configuration, the blob store, key servers, the registry, the
// local cache and the wallet into a transfer orchestrator, and exposes them
// as cobra commands. Typical flow: upload files for a recipient, hand them
// the printed share link, and let them run download with it.
//
// Commands:
//   - upload / download
//   - info, history, shared, epoch
//   - link, orphans
//   - wallet new / wallet address
//
// Services are built lazily on the first command that needs them, so
// commands such as link and wallet work without network access.
package cli
