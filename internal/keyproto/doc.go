// Package keyproto holds the formats the client encryption engine and the
// key-release service must agree on beyond the gRPC messages in
// internal/proto: the wrapped data key, the session personal message, and
// the claims of the session-signed request token.
package keyproto
