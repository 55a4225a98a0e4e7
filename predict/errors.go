package predict

import (
	"errors"
	"fmt"
)

// ErrResync marks a prediction tree that no longer agrees with what the
// server has announced. The tree for that legion has to be rebuilt from an
// authoritative snapshot (see Tracker.Resync).
var ErrResync = errors.New("prediction out of sync with server")

var ErrUnknownLegion = errors.New("unknown legion")

// ResyncError describes a violated tree invariant.
type ResyncError struct {
	Node   string // Full name of the node, marker(turn)
	Op     string
	Reason string
}

func (e *ResyncError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Node, e.Reason)
}

func (e *ResyncError) Is(target error) bool {
	return target == ErrResync
}

func (n *Node) violation(op, format string, args ...any) error {
	err := &ResyncError{Node: n.FullName(), Op: op, Reason: fmt.Sprintf(format, args...)}
	if n.cfg.strict {
		panic(err)
	}
	return err
}
