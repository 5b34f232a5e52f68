package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/corpstat/config"
	"github.com/revelaction/corpstat/storage"
	"github.com/revelaction/corpstat/storage/filesystem"
	"github.com/revelaction/corpstat/storage/sqlite/zombiezen"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Pool opens the SQLite pool once per command.
type Pool struct {
	p *sqlitex.Pool
}

func (p *Pool) Open(ctx context.Context, path string) (*sqlitex.Pool, error) {
	if p.p != nil {
		return p.p, nil
	}

	pool, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}

	if err := zombiezen.CreateSchemas(ctx, pool, zombiezen.FeaturesSchema); err != nil {
		pool.Close()
		return nil, err
	}

	p.p = pool
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p != nil {
		return p.p.Close()
	}
	return nil
}

// NewTableRepository returns the store the extract command writes to,
// creating the SQLite file when needed.
func NewTableRepository(ctx context.Context, p *Pool, conf config.Conf) (storage.TableRepository, error) {
	if conf.Format != config.FormatSQLite {
		return filesystem.NewTableStore(conf.Output, conf.Format)
	}

	path := conf.DBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database folder: %w", err)
	}

	pool, err := p.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewTableStore(pool), nil
}

// NewTableReader returns the store of an existing extraction.
func NewTableReader(ctx context.Context, p *Pool, conf config.Conf) (storage.TableReader, error) {
	path := conf.Output
	if conf.Format == config.FormatSQLite {
		path = conf.DBPath()
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	return NewTableRepository(ctx, p, conf)
}
