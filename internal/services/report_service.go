package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const reportsBucket = "postewatch-reports"

// ObjectStorage is the MinIO surface the report service uses.
type ObjectStorage interface {
	Upload(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioStorage struct {
	client *minio.Client
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client}, nil
}

func (m *minioStorage) Upload(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStorage) PresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

// ReportService exports a tenant's attendance for one day as CSV,
// uploads it to object storage and returns a presigned download URL.
type ReportService interface {
	ExportAttendance(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error)
}

type reportService struct {
	operatorRepo   repositories.OperatorRepository
	attendanceRepo repositories.AttendanceRepository
	posteRepo      repositories.PosteRepository
	storage        ObjectStorage
}

func NewReportService(operatorRepo repositories.OperatorRepository, attendanceRepo repositories.AttendanceRepository, posteRepo repositories.PosteRepository, storage ObjectStorage) ReportService {
	return &reportService{
		operatorRepo:   operatorRepo,
		attendanceRepo: attendanceRepo,
		posteRepo:      posteRepo,
		storage:        storage,
	}
}

func (s *reportService) ExportAttendance(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error) {
	date = common.DateOf(date)

	operators, err := s.operatorRepo.List(ctx, tenantID, 1000, 0)
	if err != nil {
		return "", err
	}
	absent, err := s.attendanceRepo.AbsentOperatorIDs(ctx, tenantID, date)
	if err != nil {
		return "", err
	}

	posteNames := make(map[uuid.UUID]string)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"matricule", "nom", "poste", "ligne", "statut"}); err != nil {
		return "", err
	}
	for _, op := range operators {
		posteName, ok := posteNames[op.PosteID]
		if !ok {
			poste, err := s.posteRepo.GetByID(ctx, tenantID, op.PosteID)
			if err != nil {
				if err != repositories.ErrNotFound {
					return "", err
				}
				posteName = ""
			} else {
				posteName = poste.Name
			}
			posteNames[op.PosteID] = posteName
		}

		status := models.StatusPresent
		if absent[op.ID] {
			status = models.StatusAbsent
		}
		record := []string{common.SafeString(op.Matricule), op.FullName(), posteName, op.Ligne, status}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	if err := s.storage.EnsureBucketExists(ctx, reportsBucket); err != nil {
		return "", fmt.Errorf("ensure reports bucket: %w", err)
	}

	objectName := fmt.Sprintf("%s/attendance-%s.csv", tenantID.String(), date.Format("2006-01-02"))
	if err := s.storage.Upload(ctx, reportsBucket, objectName, buf.Bytes(), "text/csv"); err != nil {
		return "", fmt.Errorf("upload attendance report: %w", err)
	}

	return s.storage.PresignedURL(ctx, reportsBucket, objectName, 24*time.Hour)
}
