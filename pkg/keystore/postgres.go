package keystore

import (
	"context"

	"image-crawler-go/pkg/db"
)

// Postgres stores values in the kv_store table.
type Postgres struct {
	db *db.DB
}

func NewPostgres(database *db.DB) *Postgres {
	return &Postgres{db: database}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	return p.db.GetValue(ctx, key)
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	return p.db.SetValue(ctx, key, value)
}
