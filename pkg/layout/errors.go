package layout

import (
	"fmt"

	"github.com/matzehuels/boxtree/pkg/errors"
)

// ErrLockUnavailable is returned by every call on a tree whose lock was
// poisoned by a panic during an earlier exclusive operation. The tree must
// be discarded.
var ErrLockUnavailable = errors.New(errors.ErrCodeLockUnavailable, "tree lock is poisoned")

// NodeRole identifies which argument of an operation held a bad NodeID.
type NodeRole uint8

const (
	RoleParent NodeRole = iota
	RoleChild
	RoleInput
)

func (r NodeRole) String() string {
	switch r {
	case RoleParent:
		return "parent"
	case RoleChild:
		return "child"
	}
	return "input"
}

// InvalidNodeError reports a NodeID that does not address a live node of
// the tree, or a child that cannot be attached where requested.
type InvalidNodeError struct {
	Role NodeRole
	Node NodeID
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("%s: invalid %s node %d", e.Code(), e.Role, e.Node)
}

// Code returns INVALID_PARENT_NODE, INVALID_CHILD_NODE or INVALID_INPUT_NODE.
func (e *InvalidNodeError) Code() errors.Code {
	switch e.Role {
	case RoleParent:
		return errors.ErrCodeInvalidParentNode
	case RoleChild:
		return errors.ErrCodeInvalidChildNode
	}
	return errors.ErrCodeInvalidInputNode
}

// ChildIndexOutOfBoundsError reports an index-addressed operation past the
// end of a children list.
type ChildIndexOutOfBoundsError struct {
	Parent NodeID
	Index  uint64
	Count  uint64
}

func (e *ChildIndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: index %d out of bounds for node %d with %d children",
		e.Code(), e.Index, e.Parent, e.Count)
}

// Code returns CHILD_INDEX_OUT_OF_BOUNDS.
func (e *ChildIndexOutOfBoundsError) Code() errors.Code {
	return errors.ErrCodeChildIndexOutOfBounds
}

func invalidNode(role NodeRole, id NodeID) error {
	return &InvalidNodeError{Role: role, Node: id}
}

func invalidInput(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}
