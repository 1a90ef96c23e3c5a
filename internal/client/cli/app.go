// Package cli wires the cram command surface: configuration, the gateway
// client, the local cache, and the upload pipeline behind cobra commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/config"
	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/client/repositories/documents"
	"github.com/crambrain/cram/internal/client/repositories/messages"
	"github.com/crambrain/cram/internal/client/session"
	"github.com/crambrain/cram/internal/client/store"
	"github.com/crambrain/cram/internal/client/transfer"
	"github.com/crambrain/cram/internal/client/upload"
	"github.com/crambrain/cram/internal/dbx"
	"github.com/crambrain/cram/internal/logging"
)

// App holds the wired components shared by all commands.
type App struct {
	Config  *config.Config
	Log     logging.Logger
	API     api.Service
	Uploads *upload.Orchestrator
	Session *session.Session

	db   *sql.DB
	Docs documents.Repository
	Msgs messages.Repository
}

// NewApp builds the command dependencies from cfg. The cache database is
// opened lazily by OpenCache so commands that never touch it do not create
// a db file.
func NewApp(cfg *config.Config) *App {
	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)
	svc := api.NewHTTPService(cfg.BaseURL, cfg.RequestTimeout, log)

	return &App{
		Config: cfg,
		Log:    log,
		API:    svc,
		Uploads: upload.NewOrchestrator(svc, transfer.New(),
			upload.WithMaxBytes(cfg.MaxUploadBytes),
			upload.WithLogger(log)),
		Session: session.New(svc, session.WithLogger(log)),
	}
}

// OpenCache opens the local sqlite cache and binds the repositories.
// Calling it twice is fine; the second call is a no-op.
func (a *App) OpenCache(ctx context.Context) error {
	if a.db != nil {
		return nil
	}
	db, err := store.Open(ctx, a.Config.CachePath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	a.db = db
	a.Docs = documents.NewSQLiteRepository(db)
	a.Msgs = messages.NewSQLiteRepository(db)
	return nil
}

// RefreshDocs replaces the cached metadata for the given documents in one
// transaction, so a partial failure never leaves a half-updated listing.
func (a *App) RefreshDocs(ctx context.Context, docs []models.Document) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := documents.NewSQLiteRepository(tx)
		for i := range docs {
			if err := repo.CreateOrUpdate(ctx, &docs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
