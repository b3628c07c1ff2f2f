package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"expenses/internal/analytics"
	"expenses/internal/log"
	"expenses/internal/table"
)

// sender is where a session writes its frames; *Client in production.
type sender interface {
	ID() string
	Send(data []byte) error
}

type sessionConfig struct {
	sorter *table.Sorter
	now    func() time.Time
	logger *log.Logger
}

// Session binds one connection to its own view and tracker. Changes from
// either side only mark the session dirty; the run loop coalesces them into
// a single state message.
type Session struct {
	out     sender
	view    *table.View
	tracker *analytics.Tracker
	logger  *log.Logger

	dirty     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(out sender, st table.Store, cfg sessionConfig) *Session {
	s := &Session{
		out:    out,
		logger: cfg.logger.With(log.FieldSessionID, out.ID()),
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	var viewOpts []table.ViewOption
	if cfg.sorter != nil {
		viewOpts = append(viewOpts, table.WithSorter(cfg.sorter))
	}
	s.view = table.NewView(st, viewOpts...)

	var trackerOpts []analytics.TrackerOption
	if cfg.now != nil {
		trackerOpts = append(trackerOpts, analytics.WithClock(cfg.now))
	}
	s.tracker = analytics.NewTracker(st, trackerOpts...)

	s.view.OnChange(func(table.Dashboard) { s.markDirty() })
	s.tracker.OnChange(func(analytics.Summary) { s.markDirty() })
	s.markDirty()
	return s
}

func (s *Session) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// run pushes state until Close.
func (s *Session) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.dirty:
			s.flush()
		}
	}
}

func (s *Session) flush() {
	s.send(StateMessage{
		Type:      MsgState,
		Dashboard: s.view.Dashboard(),
		Analytics: s.tracker.Summary(),
	})
}

func (s *Session) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode websocket message", log.FieldError, err)
		return
	}
	if err := s.out.Send(data); err != nil {
		s.logger.Debug("Dropped websocket message", log.FieldError, err)
	}
}

func (s *Session) sendError(format string, args ...any) {
	s.send(ErrorMessage{Type: MsgError, Message: fmt.Sprintf(format, args...)})
}

// handle applies one command frame.
func (s *Session) handle(ctx context.Context, data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.sendError("malformed command")
		return
	}

	switch cmd.Type {
	case CmdSort:
		col, err := table.ParseColumn(cmd.Column)
		if err != nil {
			s.sendError("%v", err)
			return
		}
		s.view.Sort(col)

	case CmdSetSort:
		col, err := table.ParseColumn(cmd.Column)
		if err != nil {
			s.sendError("%v", err)
			return
		}
		dir, err := table.ParseDirection(cmd.Direction)
		if err != nil {
			s.sendError("%v", err)
			return
		}
		s.view.SetSortState(table.SortState{Column: col, Direction: dir})

	case CmdToggle:
		if cmd.ID == "" {
			s.sendError("toggle needs an id")
			return
		}
		s.view.ToggleSelection(cmd.ID)

	case CmdToggleAll:
		s.view.ToggleAll()

	case CmdDeleteSelected:
		n := s.view.DeleteSelected(ctx)
		s.logger.InfoContext(ctx, "Deleted selected expenses",
			log.FieldOperation, log.OpBulkDelete,
			log.FieldCount, n,
		)

	case CmdDelete:
		if cmd.ID == "" {
			s.sendError("delete needs an id")
			return
		}
		s.view.Delete(ctx, cmd.ID)
		s.logger.InfoContext(ctx, "Deleted expense",
			log.FieldOperation, log.OpDelete,
			log.FieldExpenseID, cmd.ID,
		)

	case CmdRange:
		w, err := analytics.ParseWindow(cmd.Range)
		if err != nil {
			s.sendError("%v", err)
			return
		}
		s.tracker.SetWindow(w)
		s.logger.DebugContext(ctx, "Changed analytics window", log.FieldWindow, w)

	case CmdRefresh:
		s.tracker.Refresh()

	default:
		s.sendError("unknown command %q", cmd.Type)
	}
}

// Close detaches the session from the store. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.view.Close()
		s.tracker.Close()
		close(s.done)
	})
}
