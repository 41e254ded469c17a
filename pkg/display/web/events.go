package web

// Event is the second byte of a ClientInfo message, or of a message
// sent by a client with the Control prefix.
type Event = uint8

const (
	_ Event = iota
	Compression
	CompressionLevel
	FramePatching
	FrameSkipping
	ClientStatus
)

const (
	// Control prefixes messages from clients that change the
	// settings of the hub.
	Control = 10
	// Closing is sent by a client that is about to disconnect.
	Closing = 255
)

// PlayerEvent is the second byte of a PlayerInfo message.
type PlayerEvent = uint8

const (
	PausePlay PlayerEvent = iota
	PlayerAssigned
)

// Type is the first byte of every message sent to clients.
type Type = uint8

const (
	Frame Type = iota
	FramePatch
	FrameSkip
	ClientInfo
	PatchCache
	PatchCacheSync
	FrameCache
	FrameCacheSync
	FrameSync
	ClientClosing
	ServerInfo
	PlayerInfo
)
