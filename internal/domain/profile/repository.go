package profile

import "context"

type Repository interface {
	GetByIDs(ctx context.Context, profileIDs []string) ([]Profile, error)
}
