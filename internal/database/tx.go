package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docflow/internal/database/sqlc"
	"docflow/internal/docflow"
)

// ErrRollbackOnly is returned by InTx when a joined callback failed but the
// outermost callback still returned nil.
var ErrRollbackOnly = errors.New("transaction marked rollback-only")

// txKey keys the active unit of work in a context. It includes the owning
// database so two stores never share a transaction.
type txKey struct {
	db *SQLDatabase
}

// unitOfWork is one SQL transaction plus its completion hooks.
type unitOfWork struct {
	tx           *sql.Tx
	q            *sqlc.Queries
	lock         func(q *sqlc.Queries, ctx context.Context, id string) (sqlc.Document, error)
	hooks        []func(committed bool)
	rollbackOnly bool
}

var _ docflow.Tx = (*unitOfWork)(nil)

// InTx runs fn in a transaction. A ctx that already carries a transaction
// of this database joins it.
func (s *SQLDatabase) InTx(ctx context.Context, fn func(ctx context.Context, tx docflow.Tx) error) error {
	if outer, ok := ctx.Value(txKey{s}).(*unitOfWork); ok {
		if err := fn(ctx, outer); err != nil {
			outer.rollbackOnly = true
			return err
		}
		return nil
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	uow := &unitOfWork{
		tx:   sqlTx,
		q:    s.queries.WithTx(sqlTx),
		lock: s.dialect.lockDocument,
	}

	defer func() {
		if p := recover(); p != nil {
			sqlTx.Rollback()
			uow.complete(false)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{s}, uow), uow); err != nil {
		sqlTx.Rollback()
		uow.complete(false)
		return err
	}
	if uow.rollbackOnly {
		sqlTx.Rollback()
		uow.complete(false)
		return ErrRollbackOnly
	}
	if err := sqlTx.Commit(); err != nil {
		uow.complete(false)
		return fmt.Errorf("committing transaction: %w", err)
	}
	uow.complete(true)
	return nil
}

func (u *unitOfWork) AfterCompletion(fn func(committed bool)) {
	u.hooks = append(u.hooks, fn)
}

// complete runs the registered hooks once, in registration order.
func (u *unitOfWork) complete(committed bool) {
	hooks := u.hooks
	u.hooks = nil
	for _, fn := range hooks {
		fn(committed)
	}
}
