package core

// Frame is a raw outbound payload, one marshaled envelope per frame.
type Frame []byte

// SignalConnection abstracts the outbound half of a client transport.
// Owned by the adapter; the adapter must Close() it. TrySend never
// blocks: a full buffer is reported as an error and the frame is lost,
// which the coordinator treats as an implicit future disconnect.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
