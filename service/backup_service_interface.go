package service

import (
	"context"

	"ghuman-groceries/models"
)

// BackupServiceInterface defines the contract for backup operations
type BackupServiceInterface interface {
	Export(ctx context.Context) ([]byte, error)
	Parse(data []byte) (*models.Backup, error)
	Restore(ctx context.Context, data []byte) (*models.Backup, error)
	ExportTo(ctx context.Context, sinks ...BackupSink) (string, error)
}
