package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gigmarket/gigmarket/internal/infra/blob"
	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/gigmarket/gigmarket/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// MaxMediaPerProject caps attachments per project.
const MaxMediaPerProject = 5

// ObjectStore is satisfied by *blob.S3Deps.
type ObjectStore interface {
	PresignPut(ctx context.Context, storageID string) (string, time.Time, error)
	ObjectURL(ctx context.Context, storageID string) (string, error)
	Upload(ctx context.Context, storageID string, body io.Reader, contentType string) (*blob.UploadedMeta, error)
	Stat(ctx context.Context, storageID string) (*blob.ObjectInfo, error)
	DeleteObject(ctx context.Context, storageID string) error
}

type ImageWithURL struct {
	*model.ProjectMedia
	URL *string `json:"url"`
}

type UploadHandle struct {
	StorageID string    `json:"storage_id"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AttachMediaInput struct {
	ProjectID uuid.UUID
	StorageID string
	Format    string
}

type MediaService interface {
	GenerateUploadHandle(ctx context.Context, viewer *model.User) (*UploadHandle, error)
	Attach(ctx context.Context, viewer *model.User, in AttachMediaInput) (*model.ProjectMedia, error)
	Upload(ctx context.Context, viewer *model.User, projectID uuid.UUID, body io.Reader) (*model.ProjectMedia, error)
	Detach(ctx context.Context, viewer *model.User, storageID string) error
	ResolveURL(ctx context.Context, storageID string) (*string, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*ImageWithURL, error)
}

type mediaService struct {
	media    repo.MediaRepo
	projects repo.ProjectRepo
	store    ObjectStore
	notifier live.Notifier
	log      *zap.Logger
}

func NewMediaService(media repo.MediaRepo, projects repo.ProjectRepo, store ObjectStore, notifier live.Notifier, log *zap.Logger) MediaService {
	return &mediaService{media: media, projects: projects, store: store, notifier: notifier, log: log}
}

func (s *mediaService) GenerateUploadHandle(ctx context.Context, viewer *model.User) (*UploadHandle, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	storageID := uuid.NewString()
	url, expiresAt, err := s.store.PresignPut(ctx, storageID)
	if err != nil {
		return nil, err
	}
	return &UploadHandle{StorageID: storageID, UploadURL: url, ExpiresAt: expiresAt}, nil
}

func (s *mediaService) Attach(ctx context.Context, viewer *model.User, in AttachMediaInput) (*model.ProjectMedia, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.StorageID) == "" {
		return nil, validation("storage_id is required")
	}
	if _, err := s.ownedProject(ctx, viewer, in.ProjectID); err != nil {
		return nil, err
	}

	info, err := s.store.Stat(ctx, in.StorageID)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return nil, notFound("uploaded file")
		}
		return nil, err
	}
	format := in.Format
	if format == "" {
		format = info.ContentType
	}

	return s.attach(ctx, in.ProjectID, in.StorageID, format, model.Asset{
		S3Key: info.Key,
		ETag:  info.ETag,
		MIME:  info.ContentType,
		SizeB: info.SizeB,
	})
}

// Upload stores body server-side and attaches it. If the cap is reached
// after the transfer, the stored object is left behind.
func (s *mediaService) Upload(ctx context.Context, viewer *model.User, projectID uuid.UUID, body io.Reader) (*model.ProjectMedia, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	if _, err := s.ownedProject(ctx, viewer, projectID); err != nil {
		return nil, err
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n == 0 {
		return nil, validation("file is empty")
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") && !strings.HasPrefix(mt.String(), "video/") {
		return nil, validation("unsupported media type %s", mt.String())
	}

	storageID := uuid.NewString()
	meta, err := s.store.Upload(ctx, storageID, io.MultiReader(bytes.NewReader(head), body), mt.String())
	if err != nil {
		return nil, err
	}

	return s.attach(ctx, projectID, storageID, mt.String(), model.Asset{
		Bucket: meta.Bucket,
		S3Key:  meta.Key,
		ETag:   meta.ETag,
		MIME:   meta.MIME,
		SizeB:  meta.SizeB,
	})
}

func (s *mediaService) attach(ctx context.Context, projectID uuid.UUID, storageID, format string, asset model.Asset) (*model.ProjectMedia, error) {
	m := &model.ProjectMedia{
		ProjectID: projectID,
		StorageID: storageID,
		Format:    format,
		AssetMeta: datatypes.NewJSONType(asset),
	}
	if err := s.media.CreateCapped(ctx, m, MaxMediaPerProject); err != nil {
		switch {
		case errors.Is(err, repo.ErrLimitReached):
			telemetry.RecordMediaRejected(ctx)
			return nil, validation("You can upload up to %d media files. Please delete a media file before uploading a new one.", MaxMediaPerProject)
		default:
			return nil, lookupErr(err, "project")
		}
	}
	notify(ctx, s.notifier, s.log, live.TableMedia)
	return m, nil
}

func (s *mediaService) Detach(ctx context.Context, viewer *model.User, storageID string) error {
	if err := requireUser(viewer); err != nil {
		return err
	}
	m, err := s.media.GetByStorageID(ctx, storageID)
	if err != nil {
		return lookupErr(err, "media")
	}
	if _, err := s.ownedProject(ctx, viewer, m.ProjectID); err != nil {
		return err
	}
	if err := s.media.Delete(ctx, m.ID); err != nil {
		return lookupErr(err, "media")
	}
	notify(ctx, s.notifier, s.log, live.TableMedia)

	if err := s.store.DeleteObject(ctx, storageID); err != nil {
		s.log.Warn("release stored object", zap.String("storage_id", storageID), zap.Error(err))
	}
	return nil
}

func (s *mediaService) ResolveURL(ctx context.Context, storageID string) (*string, error) {
	return resolveURL(ctx, s.store, storageID)
}

func (s *mediaService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*ImageWithURL, error) {
	items, err := s.media.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return withURLs(ctx, s.store, items)
}

func (s *mediaService) ownedProject(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	if err := requireOwner(viewer, p); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveURL returns nil for an empty storage id.
func resolveURL(ctx context.Context, store ObjectStore, storageID string) (*string, error) {
	if storageID == "" {
		return nil, nil
	}
	u, err := store.ObjectURL(ctx, storageID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func withURLs(ctx context.Context, store ObjectStore, items []*model.ProjectMedia) ([]*ImageWithURL, error) {
	out := make([]*ImageWithURL, 0, len(items))
	for _, m := range items {
		u, err := resolveURL(ctx, store, m.StorageID)
		if err != nil {
			return nil, err
		}
		out = append(out, &ImageWithURL{ProjectMedia: m, URL: u})
	}
	return out, nil
}
