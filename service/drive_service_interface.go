package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	UploadBackup(ctx context.Context, folderID, filename string, data []byte) (*DriveFile, error)
	ListBackups(ctx context.Context, folderID string) ([]DriveFile, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}
