package main

// ClientStatus says whether a connected client is in the lobby or in the match
type ClientStatus int

const (
	StatusLobby ClientStatus = iota + 1
	StatusInGame
)

func (s ClientStatus) String() string {
	if s == StatusInGame {
		return "in_game"
	}
	return "lobby"
}

// LobbyStatus is the readiness of a client waiting in the lobby
type LobbyStatus int

const (
	LobbyWaiting LobbyStatus = iota + 1
	LobbyReady
)

func (s LobbyStatus) String() string {
	if s == LobbyReady {
		return "ready"
	}
	return "waiting"
}

// Client is one connected identity. It outlives matches; its Player does not.
type Client struct {
	ID          int
	Status      ClientStatus
	LobbyStatus LobbyStatus
}

// NewClient creates a waiting lobby client
func NewClient(id int) *Client {
	return &Client{ID: id, Status: StatusLobby, LobbyStatus: LobbyWaiting}
}

// ToggleReady flips readiness. Ignored once the client is in the match.
func (c *Client) ToggleReady() {
	if c.Status != StatusLobby {
		return
	}
	if c.LobbyStatus == LobbyReady {
		c.LobbyStatus = LobbyWaiting
	} else {
		c.LobbyStatus = LobbyReady
	}
}

// SetReady marks the client ready
func (c *Client) SetReady() {
	c.LobbyStatus = LobbyReady
}

// Ready reports whether the client is ready to play
func (c *Client) Ready() bool {
	return c.LobbyStatus == LobbyReady
}

// GoToWar moves a ready client into the match. Returns false if not ready.
func (c *Client) GoToWar() bool {
	if c.LobbyStatus != LobbyReady {
		return false
	}
	c.Status = StatusInGame
	return true
}

// InGame reports whether the client is playing
func (c *Client) InGame() bool {
	return c.Status == StatusInGame
}

// ResetToLobby sends the client back to the lobby, not ready
func (c *Client) ResetToLobby() {
	c.Status = StatusLobby
	c.LobbyStatus = LobbyWaiting
}

// ToState converts to protocol state
func (c *Client) ToState() ClientState {
	return ClientState{
		ID:          c.ID,
		Status:      c.Status.String(),
		LobbyStatus: c.LobbyStatus.String(),
	}
}
