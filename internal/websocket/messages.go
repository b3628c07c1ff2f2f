package websocket

import (
	"expenses/internal/analytics"
	"expenses/internal/table"
)

// Command types a client may send.
const (
	CmdSort           = "sort"
	CmdSetSort        = "set_sort"
	CmdToggle         = "toggle"
	CmdToggleAll      = "toggle_all"
	CmdDeleteSelected = "delete_selected"
	CmdDelete         = "delete"
	CmdRange          = "range"
	CmdRefresh        = "refresh"
)

// Message types the server sends.
const (
	MsgState = "state"
	MsgError = "error"
)

// Command is a client request. Only the fields its Type needs are read.
type Command struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	Column    string `json:"column,omitempty"`
	Direction string `json:"direction,omitempty"`
	Range     string `json:"range,omitempty"`
}

// StateMessage is the full dashboard as one session sees it.
type StateMessage struct {
	Type      string            `json:"type"`
	Dashboard table.Dashboard   `json:"dashboard"`
	Analytics analytics.Summary `json:"analytics"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
