// Package repository turns backend calls into resource streams.
//
// Every method performs one call, or registers one listener, and reports it as
// resource.Loading followed by Success or Error. Backend errors are reduced to
// a message: "not found", "already exists" or the driver's text.
package repository

import (
	"chatapp-client/internal/database"
	"chatapp-client/internal/email"
	"chatapp-client/internal/hub"
	"chatapp-client/internal/jwt"
	"chatapp-client/internal/keyValue"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/storage"
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Backend bundles the services the repositories talk to.
type Backend struct {
	Sugar   *zap.SugaredLogger
	DB      *database.DB
	Hub     *hub.Hub
	KV      *keyValue.Store
	Storage *storage.Store
	Signer  *jwt.Signer
	Email   *email.Sender

	// BcryptCost defaults to 12.
	BcryptCost int
}

func (b *Backend) bcryptCost() int {
	if b.BcryptCost == 0 {
		return 12
	}
	return b.BcryptCost
}

func (b *Backend) hashPassword(password string) (string, error) {
	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(password), b.bcryptCost())
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

// emit logs instead of failing: the write it announces already happened.
func (b *Backend) emit(ctx context.Context, eventType string, payload any, topics ...string) {
	for _, topic := range topics {
		err := b.Hub.Emit(ctx, eventType, topic, payload)
		if err != nil {
			b.Sugar.Error(err)
		}
	}
}

func (b *Backend) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// rollback after commit is a no-op
	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func once[T any](ctx context.Context, sugar *zap.SugaredLogger, fn func(ctx context.Context) (T, error)) resource.Stream[T] {
	return resource.Once(ctx, func(ctx context.Context) (T, error) {
		data, err := fn(ctx)
		if err != nil {
			return data, report(sugar, err)
		}
		return data, nil
	})
}

// watch reloads with load whenever one of topics changes.
func watch[T any](ctx context.Context, b *Backend, topics []string, load func(ctx context.Context) (T, error)) resource.Stream[T] {
	subCtx, cancel := context.WithCancel(ctx)

	sub, err := b.Hub.Subscribe(subCtx, topics...)
	if err != nil {
		cancel()
		return resource.Fail[T](report(b.Sugar, err).Error())
	}

	inner := resource.Watch(subCtx, sub.Events(), func(ctx context.Context) (T, error) {
		data, err := load(ctx)
		if err != nil {
			return data, report(b.Sugar, err)
		}
		return data, nil
	})

	// the subscription must end with the stream even if ctx never does
	out := make(chan resource.Resource[T], 1)
	go func() {
		defer close(out)
		defer cancel()

		for r := range inner {
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func report(sugar *zap.SugaredLogger, err error) error {
	classified := classify(err)
	if isExpected(classified) {
		sugar.Debug(err)
	} else {
		sugar.Error(err)
	}
	return classified
}

func isExpected(err error) bool {
	for _, expected := range []error{ErrNotFound, ErrAlreadyExists, ErrForbidden, ErrInvalidCredentials, ErrSessionExpired, ErrInvalidResetToken, ErrNotInVoice, ErrNotVoiceChannel, ErrOwnerCantLeave, context.Canceled} {
		if errors.Is(err, expected) {
			return true
		}
	}
	return false
}
