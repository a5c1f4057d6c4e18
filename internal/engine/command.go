package engine

import (
	"encoding/json"
	"fmt"
)

// Frame is a server-to-client message.
type Frame struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	HostelID string `json:"hostelId,omitempty"`
	RoomID   string `json:"roomId,omitempty"`
	GroupID  string `json:"groupId,omitempty"`
	Username string `json:"username,omitempty"`
}

// envelope is the wire form of a client command.
type envelope struct {
	Type     string  `json:"type"`
	HostelID string  `json:"hostelId"`
	RoomID   string  `json:"roomId"`
	Groups   []Group `json:"groups"`
}

// Command is a decoded client command. The set is closed; dispatch is an
// exhaustive type switch, so adding a command type is a compile-visible
// change.
type Command interface{ isCommand() }

// InitialiseCmd replaces a hostel's queue with an ordered group list.
type InitialiseCmd struct {
	HostelID string
	Groups   []Group
}

// RoomSelectedCmd is a head-group member picking a room.
type RoomSelectedCmd struct {
	HostelID string
	RoomID   string
}

// SubscribeCmd registers the sender as a viewer of a hostel.
type SubscribeCmd struct{ HostelID string }

// UnsubscribeCmd removes the sender from a hostel's viewer set.
type UnsubscribeCmd struct{ HostelID string }

// StartCmd starts the turn sweeper.
type StartCmd struct{}

// StopCmd cancels a hostel's queue.
type StopCmd struct{ HostelID string }

func (InitialiseCmd) isCommand()   {}
func (RoomSelectedCmd) isCommand() {}
func (SubscribeCmd) isCommand()    {}
func (UnsubscribeCmd) isCommand()  {}
func (StartCmd) isCommand()        {}
func (StopCmd) isCommand()         {}

// DecodeCommand parses a raw client message into a typed command. A decode
// failure is reported to the sender; it never terminates the connection.
func DecodeCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case "initialise":
		if env.HostelID == "" || len(env.Groups) == 0 {
			return nil, fmt.Errorf("%w: initialise requires hostelId and groups", ErrMalformed)
		}
		return InitialiseCmd{HostelID: env.HostelID, Groups: env.Groups}, nil
	case "room-selected":
		if env.HostelID == "" || env.RoomID == "" {
			return nil, fmt.Errorf("%w: room-selected requires hostelId and roomId", ErrMalformed)
		}
		return RoomSelectedCmd{HostelID: env.HostelID, RoomID: env.RoomID}, nil
	case "subscribe":
		if env.HostelID == "" {
			return nil, fmt.Errorf("%w: subscribe requires hostelId", ErrMalformed)
		}
		return SubscribeCmd{HostelID: env.HostelID}, nil
	case "unsubscribe":
		if env.HostelID == "" {
			return nil, fmt.Errorf("%w: unsubscribe requires hostelId", ErrMalformed)
		}
		return UnsubscribeCmd{HostelID: env.HostelID}, nil
	case "start":
		return StartCmd{}, nil
	case "stop":
		if env.HostelID == "" {
			return nil, fmt.Errorf("%w: stop requires hostelId", ErrMalformed)
		}
		return StopCmd{HostelID: env.HostelID}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, env.Type)
}
