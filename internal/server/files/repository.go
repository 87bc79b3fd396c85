package files

import "context"

type Repository interface {
	Create(ctx context.Context, file *File) (*File, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*File, error)
	GetByID(ctx context.Context, id int64) (*File, error)
}
