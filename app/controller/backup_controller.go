package controller

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/service"
)

// BackupController handles the backup commands
type BackupController struct {
	backups   service.BackupServiceInterface
	sync      service.SyncServiceInterface // nil without Drive credentials
	backupDir string
}

// NewBackupController creates a new BackupController
func NewBackupController(backups service.BackupServiceInterface, sync service.SyncServiceInterface, backupDir string) *BackupController {
	return &BackupController{
		backups:   backups,
		sync:      sync,
		backupDir: backupDir,
	}
}

func (bc *BackupController) dir(c *cli.Context) string {
	if d := c.String("dir"); d != "" {
		return d
	}
	return bc.backupDir
}

// Export handles `backup export [--dir D] [--stdout]`
func (bc *BackupController) Export(c *cli.Context) error {
	if c.Bool("stdout") {
		data, err := bc.backups.Export(c.Context)
		if err != nil {
			return fail("Export", err)
		}
		_, err = c.App.Writer.Write(append(data, '\n'))
		return err
	}

	dir := bc.dir(c)
	name, err := bc.backups.ExportTo(c.Context, service.FileSink{Dir: dir})
	if err != nil {
		return fail("Export", err)
	}
	return writeJSON(c, map[string]string{"file": name, "dir": dir})
}

// Import handles `backup import --file PATH`. The current data is replaced.
func (bc *BackupController) Import(c *cli.Context) error {
	path, err := requireString(c, "file")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fail("Import", errors.Wrap(err, "failed to read backup file"))
	}

	backup, err := bc.backups.Restore(c.Context, data)
	if err != nil {
		return fail("Import", err)
	}
	return writeJSON(c, map[string]interface{}{
		"version":      backup.Version,
		"timestamp":    backup.Timestamp,
		"products":     len(backup.Products),
		"sales":        len(backup.Sales),
		"creditors":    len(backup.Creditors),
		"expenses":     len(backup.Expenses),
		"restockItems": len(backup.RestockItems),
		"payments":     len(backup.Payments),
	})
}

func (bc *BackupController) requireSync() error {
	if bc.sync == nil {
		log.Warn("⚠️  Sync: Google Drive is not configured")
		return cli.Exit("Google Drive is not configured: set GOOGLE_APPLICATION_CREDENTIALS and POS_DRIVE_FOLDER_ID", 2)
	}
	return nil
}

// Push handles `backup push [--local]`. --local also writes to the backup directory.
func (bc *BackupController) Push(c *cli.Context) error {
	if err := bc.requireSync(); err != nil {
		return err
	}
	var extra []service.BackupSink
	if c.Bool("local") {
		extra = append(extra, service.FileSink{Dir: bc.dir(c)})
	}
	name, err := bc.sync.Push(c.Context, extra...)
	if err != nil {
		return fail("Push", err)
	}
	return writeJSON(c, map[string]string{"file": name})
}

// Pull handles `backup pull`
func (bc *BackupController) Pull(c *cli.Context) error {
	if err := bc.requireSync(); err != nil {
		return err
	}
	file, err := bc.sync.Pull(c.Context)
	if err != nil {
		return fail("Pull", err)
	}
	return writeJSON(c, file)
}
