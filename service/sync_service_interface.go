package service

import "context"

// SyncServiceInterface defines the contract for remote backup synchronization
type SyncServiceInterface interface {
	Push(ctx context.Context, extra ...BackupSink) (string, error)
	Pull(ctx context.Context) (*DriveFile, error)
}
