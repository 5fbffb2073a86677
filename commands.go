package main

// Sink receives outbound messages for one client. Implementations must not block.
type Sink interface {
	SendText(data []byte)
	SendBinary(data []byte)
}

// Command is anything the Simulation inbox accepts
type Command interface {
	isCommand()
}

// Connect registers a client in the lobby
type Connect struct {
	ID   int
	Sink Sink
}

// Input is one decoded input message
type Input struct {
	ID      int
	Mask    uint32
	Context InputContext
}

// Disconnect removes a client and its player
type Disconnect struct {
	ID int
}

// Tick advances the world by one step
type Tick struct{}

// LobbyQuery asks for the current lobby snapshot. Reply must be buffered.
type LobbyQuery struct {
	Reply chan LobbySnapshot
}

// Reset forces the match back to stopped. Done is closed once applied, if set.
type Reset struct {
	Done chan struct{}
}

func (Connect) isCommand()    {}
func (Input) isCommand()      {}
func (Disconnect) isCommand() {}
func (Tick) isCommand()       {}
func (LobbyQuery) isCommand() {}
func (Reset) isCommand()      {}
