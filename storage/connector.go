// Package storage owns the process-wide database handle. The connection is
// opened lazily by the first caller that needs it; callers arriving while that
// attempt is in flight wait for it instead of opening their own.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const connectKey = "connect"

// OpenFunc establishes a ready-to-use database handle.
type OpenFunc func(ctx context.Context) (*sql.DB, error)

// Acquirer hands out the shared database handle, connecting on first use.
type Acquirer interface {
	Acquire(ctx context.Context) (*sql.DB, error)
}

// Connector is an Acquirer that performs at most one connection attempt at a
// time. A failed attempt is not remembered, so the next caller retries.
type Connector struct {
	open    OpenFunc
	timeout time.Duration
	group   singleflight.Group

	mu sync.RWMutex
	db *sql.DB
}

var _ Acquirer = (*Connector)(nil)

type ConnectorOption func(*Connector)

// WithConnectTimeout bounds a single connection attempt
func WithConnectTimeout(timeout time.Duration) ConnectorOption {
	return func(c *Connector) {
		c.timeout = timeout
	}
}

func NewConnector(open OpenFunc, options ...ConnectorOption) *Connector {
	c := &Connector{
		open:    open,
		timeout: 5 * time.Second,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Acquire returns the shared handle. A caller whose ctx ends while waiting
// gets ctx.Err(); the attempt itself carries on for the other waiters.
func (c *Connector) Acquire(ctx context.Context) (*sql.DB, error) {
	if db := c.current(); db != nil {
		return db, nil
	}

	ch := c.group.DoChan(connectKey, func() (any, error) {
		if db := c.current(); db != nil {
			return db, nil
		}

		connectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		log.Info().Msg("Creating new database connection")
		db, err := c.open(connectCtx)
		if err != nil {
			log.Err(err).Msg("Database connection failed")
			return nil, err
		}

		c.mu.Lock()
		c.db = db
		c.mu.Unlock()
		log.Info().Msg("Database connection established")
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("database connection failed: %w", res.Err)
		}
		return res.Val.(*sql.DB), nil
	}
}

// Close releases the handle if one was opened.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Connector) current() *sql.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
