package unitofwork

import "context"

// RepositoryFactory hands each request or sweep pass its own UnitOfWork so
// repositories never share transaction state across callers.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
