package core

// Frame is a raw payload, already marshaled for the wire.
type Frame []byte

// ConnID identifies one live transport connection. Assigned by the adapter
// when a connection is accepted; never reused across reconnects.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
