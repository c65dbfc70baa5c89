// Package txtest provides an in-memory tx.Manager for unit tests.
package txtest

import (
	"context"
	"sync"

	"stockbook/internal/core/tx"
)

type txKey struct{}

// Manager runs fn directly and marks ctx as transactional. Stores used in
// tests register OnBegin/OnRollback to snapshot and restore their state.
type Manager struct {
	mu sync.Mutex

	OnBegin    func()
	OnRollback func()

	Begun        int
	Committed    int
	RolledBack   int
	ReadOnlyRuns int
}

var _ tx.ReadOnlyManager = (*Manager)(nil)

// RunInTransaction implements tx.Manager.
func (m *Manager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.InTransaction(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	m.Begun++
	m.mu.Unlock()
	if m.OnBegin != nil {
		m.OnBegin()
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.rollback()
		return err
	}

	m.mu.Lock()
	m.Committed++
	m.mu.Unlock()
	return nil
}

func (m *Manager) rollback() {
	if m.OnRollback != nil {
		m.OnRollback()
	}
	m.mu.Lock()
	m.RolledBack++
	m.mu.Unlock()
}

// ReadOnly implements tx.ReadOnlyManager.
func (m *Manager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.ReadOnlyRuns++
	m.mu.Unlock()
	return m.RunInTransaction(ctx, fn)
}

// InTransaction implements tx.Manager.
func (m *Manager) InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// Begin returns a ctx that reports an open transaction, for calling
// ledger operations directly in tests.
func Begin(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, true)
}
