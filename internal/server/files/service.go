package files

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/drivault/internal/filex"
	"github.com/dmitrijs2005/drivault/internal/logging"
	"github.com/dmitrijs2005/drivault/internal/server/storage"
)

// Upload is one incoming file: its original name, the declared MIME type
// (may be empty) and the byte stream to persist.
type Upload struct {
	Filename string
	MimeType string
	Data     io.Reader
}

// Service runs the file-ingestion pipeline: allocate a stored name, stream
// the bytes under the owner's namespace, classify the original name and
// persist the metadata record.
type Service struct {
	repo   Repository
	store  *storage.Store
	logger logging.Logger
}

func NewService(repo Repository, store *storage.Store, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		logger: logger.With("module", "files"),
	}
}

// Ingest stores the given uploads for one owner, strictly in the order
// supplied, and returns the created records.
//
// The first failure aborts the whole batch: bytes already written to disk
// stay where they are (no compensation pass) and remaining uploads are never
// attempted. Sizes are measured from the filesystem after the copy, not
// taken from any declared content length.
func (s *Service) Ingest(ctx context.Context, ownerID int64, ownerEmail string, uploads []Upload) ([]*File, error) {

	result := make([]*File, 0, len(uploads))

	for _, upload := range uploads {

		storedName, err := storage.AllocateName(upload.Filename)
		if err != nil {
			return nil, err
		}

		dest := s.store.Dest(ownerEmail, storedName)

		path, err := filex.CopyChunked(dest, upload.Data)
		if err != nil {
			s.logger.Error(ctx, "file copy failed", "filename", upload.Filename, "error", err)
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		category, extension := Classify(upload.Filename)

		file := &File{
			Name:       upload.Filename,
			StoredName: storedName,
			Type:       category,
			Extension:  extension,
			FilePath:   path,
			OwnerID:    ownerID,
			Size:       info.Size(),
			AccessType: AccessPrivate,
			Metadata:   map[string]any{},
			SharedWith: []int64{},
		}
		if upload.MimeType != "" {
			mime := upload.MimeType
			file.MimeType = &mime
		}

		created, err := s.repo.Create(ctx, file)
		if err != nil {
			return nil, err
		}

		s.logger.Info(ctx, "file ingested", "stored_name", storedName, "size", file.Size)
		result = append(result, created)
	}

	return result, nil
}

// List returns all metadata records owned by ownerID.
func (s *Service) List(ctx context.Context, ownerID int64) ([]*File, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
