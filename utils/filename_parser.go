package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	backupPrefix     = "ghuman-groceries-backup-"
	backupDateLayout = "2006-01-02"
)

var backupNameRegex = regexp.MustCompile(`^ghuman-groceries-backup-(\d{4}-\d{2}-\d{2})\.json$`)

// BackupFileName returns the file name used for a backup taken at t
// Example: ghuman-groceries-backup-2026-10-18.json
func BackupFileName(t time.Time) string {
	return backupPrefix + t.Format(backupDateLayout) + ".json"
}

// ParseBackupFileName extracts the backup date from a file name produced by
// BackupFileName. Matching ignores case.
func ParseBackupFileName(filename string) (time.Time, error) {
	matches := backupNameRegex.FindStringSubmatch(strings.ToLower(filename))
	if len(matches) != 2 {
		return time.Time{}, errors.Errorf("invalid backup file name: %s", filename)
	}

	date, err := time.Parse(backupDateLayout, matches[1])
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid backup date in %s", filename)
	}
	return date, nil
}

// IsBackupFileName reports whether filename looks like a backup file
func IsBackupFileName(filename string) bool {
	_, err := ParseBackupFileName(filename)
	return err == nil
}
