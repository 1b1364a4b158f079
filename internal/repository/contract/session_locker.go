package contract

import "context"

// SessionLocker grants exclusive access to one study session across every
// SessionAccess that shares it. Lock blocks until the lock is held or ctx
// is done; the returned func releases it and is safe to call once.
type SessionLocker interface {
	Lock(ctx context.Context, id string) (unlock func(), err error)
}
