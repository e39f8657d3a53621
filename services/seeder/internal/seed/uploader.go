package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
)

// Committer persists one batch of documents with merge semantics.
type Committer interface {
	Commit(ctx context.Context, docs []models.Document) error
}

// Uploader groups documents into fixed-size batches.
type Uploader struct {
	committer Committer
	batchSize int
	logger    *slog.Logger
}

// NewUploader returns an uploader committing at most batchSize documents per call.
func NewUploader(committer Committer, batchSize int, logger *slog.Logger) *Uploader {
	if batchSize <= 0 {
		batchSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{committer: committer, batchSize: batchSize, logger: logger}
}

// Upload commits docs batch by batch, flushing the final partial batch, and
// returns written plus the number of documents committed. On error the
// returned count covers only the batches that were committed.
func (u *Uploader) Upload(ctx context.Context, docs []models.Document, written int) (int, error) {
	pending := make([]models.Document, 0, u.batchSize)
	for _, d := range docs {
		pending = append(pending, d)
		if len(pending) < u.batchSize {
			continue
		}
		var err error
		if written, err = u.flush(ctx, pending, written); err != nil {
			return written, err
		}
		pending = make([]models.Document, 0, u.batchSize)
	}
	return u.flush(ctx, pending, written)
}

func (u *Uploader) flush(ctx context.Context, batch []models.Document, written int) (int, error) {
	if len(batch) == 0 {
		return written, nil
	}
	if err := u.committer.Commit(ctx, batch); err != nil {
		return written, fmt.Errorf("commit batch starting at %s: %w", batch[0].ID, err)
	}
	written += len(batch)
	u.logger.Info("committed batch", slog.Int("docs", len(batch)), slog.Int("total", written))
	return written, nil
}

// DryRunCommitter logs batches instead of writing them.
type DryRunCommitter struct {
	Logger *slog.Logger
}

func (d DryRunCommitter) Commit(_ context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("dry-run: would upsert batch",
		slog.Int("docs", len(docs)),
		slog.String("first", docs[0].ID),
		slog.String("last", docs[len(docs)-1].ID))
	return nil
}
