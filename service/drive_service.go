package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"ghuman-groceries/utils"
)

// DriveFile describes a backup stored in Google Drive
type DriveFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`
}

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create drive service")
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// UploadBackup stores data as a new JSON file in the folder
func (ds *DriveService) UploadBackup(ctx context.Context, folderID, filename string, data []byte) (*DriveFile, error) {
	meta := &drive.File{
		Name:     filename,
		MimeType: "application/json",
	}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	f, err := ds.client.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Fields("id, name, createdTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload backup")
	}

	log.Printf("☁️  UploadBackup: uploaded %s (id=%s)", f.Name, f.Id)
	return &DriveFile{ID: f.Id, Name: f.Name, CreatedTime: f.CreatedTime}, nil
}

// ListBackups lists backup files in the folder, newest first
func (ds *DriveService) ListBackups(ctx context.Context, folderID string) ([]DriveFile, error) {
	query := "mimeType='application/json' and trashed=false"
	if folderID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", folderID, query)
	}

	var files []DriveFile
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			OrderBy("createdTime desc").
			Fields("nextPageToken, files(id, name, createdTime)").
			Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, errors.Wrap(err, "failed to list files")
		}

		for _, f := range r.Files {
			if !utils.IsBackupFileName(f.Name) {
				continue
			}
			files = append(files, DriveFile{ID: f.Id, Name: f.Name, CreatedTime: f.CreatedTime})
		}
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// Download returns the content of a file
func (ds *DriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, errors.Wrap(err, "failed to download file")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file content")
	}
	return data, nil
}

// DriveSink adapts a Drive folder to BackupSink
type DriveSink struct {
	Drive    DriveServiceInterface
	FolderID string
}

// Name identifies the sink in logs
func (s DriveSink) Name() string {
	return "drive:" + s.FolderID
}

// Write uploads the backup
func (s DriveSink) Write(ctx context.Context, filename string, data []byte) error {
	_, err := s.Drive.UploadBackup(ctx, s.FolderID, filename, data)
	return err
}
