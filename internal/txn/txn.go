// Package txn runs a unit of work inside a Mongo transaction, falling back to
// plain sequential execution on deployments without transaction support
// (a standalone mongod).
package txn

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner executes functions transactionally against one client.
type Runner struct {
	client *mongo.Client
	log    *zap.Logger

	warnOnce sync.Once
}

func New(client *mongo.Client, log *zap.Logger) *Runner {
	return &Runner{client: client, log: log}
}

// Run calls fn inside a transaction. fn must use the context it receives for
// every database call so the operations join the session.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.client == nil {
		return fn(ctx)
	}

	sess, err := r.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			r.fallbackWarning(err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		r.fallbackWarning(err)
		return fn(ctx)
	}
	return err
}

func (r *Runner) fallbackWarning(err error) {
	r.warnOnce.Do(func() {
		r.log.Warn("mongo transactions unavailable, running without them", zap.Error(err))
	})
}

// standaloneRejection is how a standalone mongod refuses the first write of a
// transaction.
const (
	standaloneRejection = "transaction numbers are only allowed on a replica set member or mongos"
	illegalOperation    = 20
)

// IsNotSupported reports whether err is the standalone server's rejection of
// a transaction. Any other failure, including commit errors, is not retried
// without a transaction.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code != illegalOperation {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), standaloneRejection)
}
