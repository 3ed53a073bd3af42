package squad

import "context"

type Repository interface {
	GetByIDs(ctx context.Context, squadIDs []string) ([]Squad, error)
}
