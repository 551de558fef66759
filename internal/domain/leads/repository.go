package leads

import "context"

type Repository interface {
	Create(ctx context.Context, l Lead) error
	List(ctx context.Context, limit int) ([]Lead, error)
}
