package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
	"go.uber.org/zap"
)

const DefaultBatchSize = 1000

type Summary struct {
	Read       int
	Inserted   int64
	Skipped    int
	Normalized int
	Took       time.Duration
}

type Loader struct {
	repo  anime.Repo
	batch int
	log   *zap.Logger
}

func NewLoader(repo anime.Repo, batch int, log *zap.Logger) *Loader {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{repo: repo, batch: batch, log: log.With(zap.String("component", "importer"))}
}

// Load reads the offline database document from r and inserts it in
// batches. Entries without a title are skipped. Batches already written stay
// written when a later one fails.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Summary, error) {
	start := time.Now()
	var sum Summary

	dec, err := newDecoder(r)
	if err != nil {
		return sum, err
	}

	buf := make([]anime.Anime, 0, l.batch)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		n, err := l.repo.BulkInsert(ctx, buf)
		sum.Inserted += n
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		l.log.Debug("batch inserted", zap.Int64("rows", n), zap.Int64("total", sum.Inserted))
		buf = buf[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rec, err := dec.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, err
		}
		sum.Read++

		if rec.Title == "" {
			sum.Skipped++
			continue
		}
		a, normalized := rec.toAnime()
		if normalized {
			sum.Normalized++
		}
		buf = append(buf, a)
		if len(buf) == l.batch {
			if err := flush(); err != nil {
				return sum, err
			}
		}
	}
	if err := flush(); err != nil {
		return sum, err
	}

	sum.Took = time.Since(start)
	l.log.Info("import finished",
		zap.Int("read", sum.Read),
		zap.Int64("inserted", sum.Inserted),
		zap.Int("skipped", sum.Skipped),
		zap.Int("normalized", sum.Normalized),
		zap.Duration("took", sum.Took),
	)
	return sum, nil
}
