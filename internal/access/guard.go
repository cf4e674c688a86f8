// Package access holds the ownership rules shared by every resource
// repository: owners are stamped by the server on create and every query is
// filtered by the caller.
package access

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
)

// OwnerColumn is the ownership column on every user-owned table.
const OwnerColumn = "user_id"

var ErrNoCaller = errors.New("access: missing caller identity")

// Owned is implemented by create payloads whose owner is assigned server-side.
type Owned interface {
	SetOwner(ownerID int64)
}

// StampOwner overwrites any client-supplied owner with callerID.
func StampOwner[T Owned](payload T, callerID int64) T {
	payload.SetOwner(callerID)
	return payload
}

// Scope adds "user_id = callerID" to base. A nil base yields the owner filter alone.
func Scope(base sq.Sqlizer, callerID int64) sq.Sqlizer {
	owner := sq.Eq{OwnerColumn: callerID}
	if base == nil {
		return owner
	}
	return sq.And{base, owner}
}

func RequireCaller(callerID int64) error {
	if callerID <= 0 {
		return ErrNoCaller
	}
	return nil
}
