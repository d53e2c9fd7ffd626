package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
	"ghuman-groceries/repository"
	"ghuman-groceries/utils"
)

// BackupSink is a destination for exported backups
type BackupSink interface {
	Name() string
	Write(ctx context.Context, filename string, data []byte) error
}

// BackupService exports and restores the full dataset as a JSON envelope
// Implements BackupServiceInterface
type BackupService struct {
	repository repository.BackupRepositoryInterface
	now        func() time.Time
}

// NewBackupService creates a new BackupService
func NewBackupService(repo repository.BackupRepositoryInterface) *BackupService {
	return &BackupService{repository: repo, now: db.Now}
}

// Ensure BackupService implements BackupServiceInterface
var _ BackupServiceInterface = (*BackupService)(nil)

// Export returns the pretty-printed backup envelope
func (s *BackupService) Export(ctx context.Context) ([]byte, error) {
	backup, err := s.repository.Snapshot(ctx)
	if err != nil {
		log.Errorf("❌ Export: failed to read dataset: %v", err)
		return nil, err
	}
	backup.Version = models.BackupVersion
	backup.Timestamp = db.FormatTime(s.now())

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode backup")
	}

	log.WithField("bytes", len(data)).Info("📤 Export: backup created")
	return data, nil
}

// Parse decodes a backup envelope. A backup without version or timestamp is
// rejected with models.ErrInvalidBackup.
func (s *BackupService) Parse(data []byte) (*models.Backup, error) {
	var header struct {
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, errors.Wrapf(models.ErrInvalidBackup, "malformed JSON: %v", err)
	}
	if header.Version == "" || header.Timestamp == "" {
		return nil, models.ErrInvalidBackup
	}

	var backup models.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, errors.Wrapf(models.ErrInvalidBackup, "malformed records: %v", err)
	}
	return &backup, nil
}

// Restore replaces the whole dataset with the backup in data. Validation
// happens before anything is deleted.
func (s *BackupService) Restore(ctx context.Context, data []byte) (*models.Backup, error) {
	backup, err := s.Parse(data)
	if err != nil {
		log.Warnf("⚠️  Restore: rejected backup: %v", err)
		return nil, err
	}

	log.Printf("📥 Restore: importing backup version=%s taken at %s", backup.Version, backup.Timestamp)
	if err := s.repository.Replace(ctx, backup); err != nil {
		return nil, err
	}
	return backup, nil
}

// ExportTo writes one export to every sink concurrently and returns the file
// name used. The first sink error is returned after all sinks finish.
func (s *BackupService) ExportTo(ctx context.Context, sinks ...BackupSink) (string, error) {
	data, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	filename := utils.BackupFileName(s.now())

	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range sinks {
		sink := sink
		g.Go(func() error {
			if err := sink.Write(gctx, filename, data); err != nil {
				log.Errorf("❌ ExportTo: %s failed: %v", sink.Name(), err)
				return errors.Wrapf(err, "failed to write backup to %s", sink.Name())
			}
			log.Printf("✅ ExportTo: wrote %s to %s", filename, sink.Name())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return filename, err
	}
	return filename, nil
}

// FileSink writes backups into a local directory
type FileSink struct {
	Dir string
}

// Name identifies the sink in logs
func (f FileSink) Name() string {
	return "dir:" + f.Dir
}

// Write stores data as Dir/filename
func (f FileSink) Write(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create backup directory")
	}
	if err := os.WriteFile(filepath.Join(f.Dir, filename), data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write backup file")
	}
	return nil
}
