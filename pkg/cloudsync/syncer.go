package cloudsync

import (
	"context"
	"fmt"
	"time"

	"github.com/envelope-ledger/backend/pkg/backup"
	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Syncer pushes and pulls the backup document of all budgets.
//
// The export date of the document last pushed or pulled is kept in the
// store so that PullIfNewer only imports documents written later.
type Syncer struct {
	store  store.Store
	backup *backup.Service
	remote Remote
}

func NewSyncer(s store.Store, b *backup.Service, r Remote) *Syncer {
	return &Syncer{store: s, backup: b, remote: r}
}

// PullResult describes the outcome of a pull.
type PullResult struct {
	Imported   bool                 `json:"imported"`
	ExportDate time.Time            `json:"exportDate"`
	Result     *backup.ImportResult `json:"result,omitempty"`
}

// Push exports all budgets and writes the document to the remote.
func (s *Syncer) Push(ctx context.Context) (time.Time, error) {
	doc, err := s.backup.Export(ctx)
	if err != nil {
		return time.Time{}, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return time.Time{}, fmt.Errorf("encode backup: %w", err)
	}

	if err := s.remote.Write(ctx, data); err != nil {
		return time.Time{}, err
	}

	if err := s.markSynced(ctx, doc.ExportDate); err != nil {
		return time.Time{}, err
	}

	log.Info().Time("exportDate", doc.ExportDate).Int("budgets", len(doc.Budgets)).Msg("Pushed backup")
	return doc.ExportDate, nil
}

// Pull imports the remote document unconditionally.
func (s *Syncer) Pull(ctx context.Context) (PullResult, error) {
	return s.pull(ctx, false)
}

// PullIfNewer imports the remote document only if it was exported after
// the last push or pull.
func (s *Syncer) PullIfNewer(ctx context.Context) (PullResult, error) {
	return s.pull(ctx, true)
}

func (s *Syncer) pull(ctx context.Context, onlyNewer bool) (PullResult, error) {
	data, err := s.remote.Read(ctx)
	if err != nil {
		return PullResult{}, err
	}

	var header struct {
		ExportDate time.Time `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return PullResult{}, fmt.Errorf("decode remote backup: %w", err)
	}

	if onlyNewer {
		last, err := s.LastSync(ctx)
		if err != nil {
			return PullResult{}, err
		}

		if !header.ExportDate.After(last) {
			log.Debug().Time("remote", header.ExportDate).Time("last", last).Msg("Remote backup is not newer")
			return PullResult{ExportDate: header.ExportDate}, nil
		}
	}

	result, err := s.backup.Import(ctx, data)
	if err != nil {
		return PullResult{}, err
	}

	if err := s.markSynced(ctx, header.ExportDate); err != nil {
		return PullResult{}, err
	}

	log.Info().Time("exportDate", header.ExportDate).Msg("Pulled backup")
	return PullResult{Imported: true, ExportDate: header.ExportDate, Result: &result}, nil
}

// LastSync returns the export date of the document last pushed or pulled.
// It is the zero time if nothing has been synced.
func (s *Syncer) LastSync(ctx context.Context) (time.Time, error) {
	return store.Load(ctx, s.store, store.KeyLastSync, time.Time{})
}

func (s *Syncer) markSynced(ctx context.Context, t time.Time) error {
	return store.Save(ctx, s.store, store.KeyLastSync, t)
}
