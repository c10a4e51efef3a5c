package progress

import "errors"

var (
	// ErrSchemaMissing means the remote table does not exist. Callers
	// should show remote.SetupSQL.
	ErrSchemaMissing = errors.New("remote schema missing")

	// ErrSyncFailure wraps any other failure of SyncFromRemote.
	ErrSyncFailure = errors.New("sync from remote failed")

	// ErrNoRemote is returned by SyncFromRemote when no gateway is set.
	ErrNoRemote = errors.New("no remote configured")
)
