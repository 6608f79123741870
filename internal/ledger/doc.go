// Package ledger contains the pieces of the Sui-compatible ledger protocol the
// sealdrop client and key server share: 32-byte addresses and their
// normalization, the BCS subset needed to encode programmable transaction
// kinds, Ed25519 signatures over intent messages, and a JSON-RPC client for
// the fullnode read and execute endpoints.
//
// Nothing here knows about files or blobs. The registry and seal packages
// build their domain calls on top of MoveCall and TransactionIntent.
package ledger
