package service

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNoRemoteBackup is returned by Pull when the folder holds no backup
var ErrNoRemoteBackup = errors.New("no backup found in drive folder")

// SyncService moves backups between the store and a Google Drive folder
// Implements SyncServiceInterface
type SyncService struct {
	driveService DriveServiceInterface
	backups      BackupServiceInterface
	folderID     string
}

// NewSyncService creates a new SyncService
func NewSyncService(driveService DriveServiceInterface, backups BackupServiceInterface, folderID string) *SyncService {
	return &SyncService{
		driveService: driveService,
		backups:      backups,
		folderID:     folderID,
	}
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// Push exports the dataset and uploads it. Extra sinks (a local directory,
// say) receive the same export.
func (s *SyncService) Push(ctx context.Context, extra ...BackupSink) (string, error) {
	log.Printf("🔄 Push: uploading backup to folder %s", s.folderID)
	sinks := append([]BackupSink{DriveSink{Drive: s.driveService, FolderID: s.folderID}}, extra...)
	return s.backups.ExportTo(ctx, sinks...)
}

// Pull downloads the newest backup in the folder and restores it
func (s *SyncService) Pull(ctx context.Context) (*DriveFile, error) {
	log.Printf("🔄 Pull: looking for backups in folder %s", s.folderID)

	files, err := s.driveService.ListBackups(ctx, s.folderID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Warnf("⚠️  Pull: %v", ErrNoRemoteBackup)
		return nil, ErrNoRemoteBackup
	}

	latest := files[0]
	data, err := s.driveService.Download(ctx, latest.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.backups.Restore(ctx, data); err != nil {
		log.Errorf("❌ Pull: failed to restore %s: %v", latest.Name, err)
		return nil, err
	}

	log.Printf("🎉 Pull: restored %s", latest.Name)
	return &latest, nil
}
