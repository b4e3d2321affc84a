package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-booths/internal/logger"
	"ms-booths/internal/models"
	"ms-booths/internal/store"
)

// Run records one snapshot write.
type Run struct {
	bun.BaseModel `bun:"table:archive_runs"`

	ID           int64     `bun:"id,pk,autoincrement"`
	TakenAt      time.Time `bun:"taken_at"`
	Booths       int       `bun:"booths"`
	Menus        int       `bun:"menus"`
	Reservations int       `bun:"reservations"`
}

// DB writes store snapshots to SQLite for after-event reconciliation. The
// archive is write-only from the service's point of view: nothing is loaded
// back into the store on startup.
type DB struct {
	Bun    *bun.DB
	Logger *logger.Logger
}

// Open connects to the SQLite file at path and creates the tables.
func Open(ctx context.Context, path string, log *logger.Logger) (*DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	sqldb.SetMaxOpenConns(1)

	d := &DB{Bun: bun.NewDB(sqldb, sqlitedialect.New()), Logger: log}
	if err := d.Migrate(ctx); err != nil {
		d.Bun.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Migrate(ctx context.Context) error {
	for _, model := range []any{
		(*models.Booth)(nil),
		(*models.MenuItem)(nil),
		(*models.Reservation)(nil),
		(*Run)(nil),
	} {
		if _, err := d.Bun.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// WriteSnapshot replaces the archived booths, menus and reservations with snap
// in a single transaction and appends a Run row.
func (d *DB) WriteSnapshot(ctx context.Context, snap store.Snapshot) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{(*models.Booth)(nil), (*models.MenuItem)(nil), (*models.Reservation)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		if len(snap.Booths) > 0 {
			if _, err := tx.NewInsert().Model(&snap.Booths).Exec(ctx); err != nil {
				return fmt.Errorf("insert booths: %w", err)
			}
		}
		if len(snap.Menus) > 0 {
			if _, err := tx.NewInsert().Model(&snap.Menus).Exec(ctx); err != nil {
				return fmt.Errorf("insert menu items: %w", err)
			}
		}
		if len(snap.Reservations) > 0 {
			if _, err := tx.NewInsert().Model(&snap.Reservations).Exec(ctx); err != nil {
				return fmt.Errorf("insert reservations: %w", err)
			}
		}

		run := &Run{
			TakenAt:      snap.TakenAt,
			Booths:       len(snap.Booths),
			Menus:        len(snap.Menus),
			Reservations: len(snap.Reservations),
		}
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return fmt.Errorf("insert archive run: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if d.Logger != nil {
		d.Logger.LogDatabase("ARCHIVE", "reservations",
			fmt.Sprintf("%d booths, %d menus, %d reservations written", len(snap.Booths), len(snap.Menus), len(snap.Reservations)))
	}
	return nil
}

func (d *DB) Close() error {
	return d.Bun.Close()
}
