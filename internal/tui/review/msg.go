package review

import "github.com/SwapLabsInc/ChadGI-sub001/internal/domain"

// Msg is the interface for all review TUI messages.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgPendingLoaded is sent when the pending approvals are loaded.
type MsgPendingLoaded struct {
	Err     error
	Pending []domain.ApprovalArtifact
}

func (MsgPendingLoaded) sealed() {}

// MsgDecided is sent when a decision was recorded.
type MsgDecided struct {
	Err      error
	Decision domain.ApprovalDecision
	TaskID   int
}

func (MsgDecided) sealed() {}
