package files

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivault/internal/common"
	"github.com/dmitrijs2005/drivault/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *File) (*File, error) {

	metadata, err := json.Marshal(file.Metadata)
	if err != nil {
		return nil, fmt.Errorf("error marshalling metadata: %w", err)
	}
	sharedWith, err := json.Marshal(file.SharedWith)
	if err != nil {
		return nil, fmt.Errorf("error marshalling shared_with: %w", err)
	}

	query :=
		`INSERT INTO files (name, original_filename, mime_type, type, extension, file_path,
		                    owner_id, size, access_type, metadata, shared_with)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		file.Name, file.StoredName, nullableString(file.MimeType), string(file.Type),
		nullableExtension(file.Extension), file.FilePath, file.OwnerID, file.Size,
		string(file.AccessType), metadata, sharedWith,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*File, error) {

	query :=
		`SELECT id, name, original_filename, mime_type, type, extension, file_path,
		        owner_id, size, access_type, metadata, shared_with,
		        is_deleted, deleted_at, created_at, updated_at
		 FROM files
		 WHERE owner_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*File, error) {

	query :=
		`SELECT id, name, original_filename, mime_type, type, extension, file_path,
		        owner_id, size, access_type, metadata, shared_with,
		        is_deleted, deleted_at, created_at, updated_at
		 FROM files
		 WHERE id = $1
		 `

	row := r.db.QueryRowContext(ctx, query, id)

	file, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	return file, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*File, error) {
	var (
		file       File
		mimeType   sql.NullString
		extension  sql.NullString
		deletedAt  sql.NullTime
		metadata   []byte
		sharedWith []byte
	)

	err := s.Scan(&file.ID, &file.Name, &file.StoredName, &mimeType, &file.Type,
		&extension, &file.FilePath, &file.OwnerID, &file.Size, &file.AccessType,
		&metadata, &sharedWith, &file.IsDeleted, &deletedAt, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning row: %w", err)
	}

	if mimeType.Valid {
		file.MimeType = &mimeType.String
	}
	if extension.Valid {
		ext := Extension(extension.String)
		file.Extension = &ext
	}
	if deletedAt.Valid {
		file.DeletedAt = &deletedAt.Time
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &file.Metadata); err != nil {
			return nil, fmt.Errorf("error unmarshalling metadata: %w", err)
		}
	}
	if len(sharedWith) > 0 {
		if err := json.Unmarshal(sharedWith, &file.SharedWith); err != nil {
			return nil, fmt.Errorf("error unmarshalling shared_with: %w", err)
		}
	}

	return &file, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableExtension(e *Extension) any {
	if e == nil {
		return nil
	}
	return string(*e)
}
