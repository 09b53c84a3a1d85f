package importer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "license": {"name": "ODbL"},
  "repository": "https://example.org",
  "data": [
    {"title": "Cowboy Bebop", "type": "TV", "episodes": 26, "status": "FINISHED",
     "animeSeason": {"season": "SPRING", "year": 1998},
     "synonyms": ["Kaubôi Bibappu"], "tags": ["space", "action"]},
    {"title": "Mystery", "type": "MUSIC", "episodes": 1, "status": "CANCELLED",
     "animeSeason": {"season": "UNDEFINED"}, "synonyms": [], "tags": []},
    {"title": "", "type": "TV"},
    {"title": "Akira", "type": "MOVIE", "episodes": 1, "status": "FINISHED",
     "animeSeason": {"season": "SUMMER", "year": 1988}, "tags": ["cyberpunk"]}
  ]
}`

type memRepo struct {
	batches [][]anime.Anime
	failAt  int
}

func (m *memRepo) List(context.Context, anime.Filter, anime.Page) ([]anime.Anime, error) {
	return nil, nil
}
func (m *memRepo) Count(context.Context, anime.Filter) (int64, error) { return 0, nil }
func (m *memRepo) Exists(context.Context, int64) (bool, error)        { return false, nil }

func (m *memRepo) BulkInsert(_ context.Context, items []anime.Anime) (int64, error) {
	if m.failAt > 0 && len(m.batches)+1 == m.failAt {
		return 0, errors.New("copy failed")
	}
	m.batches = append(m.batches, append([]anime.Anime(nil), items...))
	return int64(len(items)), nil
}

func (m *memRepo) all() []anime.Anime {
	var out []anime.Anime
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func TestLoad_NormalizesAndSkips(t *testing.T) {
	repo := &memRepo{}
	sum, err := NewLoader(repo, 10, nil).Load(context.Background(), strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Read)
	assert.Equal(t, int64(3), sum.Inserted)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Normalized)

	got := repo.all()
	require.Len(t, got, 3)
	assert.Equal(t, "Cowboy Bebop", got[0].Title)
	assert.Equal(t, anime.SeasonSpring, got[0].AnimeSeason.Season)
	require.NotNil(t, got[0].AnimeSeason.Year)
	assert.Equal(t, 1998, *got[0].AnimeSeason.Year)
	assert.Equal(t, []string{"space", "action"}, got[0].Tags)

	assert.Equal(t, anime.TypeUnknown, got[1].Type)
	assert.Equal(t, anime.StatusUnknown, got[1].Status)
	assert.Equal(t, anime.SeasonUndefined, got[1].AnimeSeason.Season)
	assert.Nil(t, got[1].AnimeSeason.Year)
}

func TestLoad_Batches(t *testing.T) {
	repo := &memRepo{}
	_, err := NewLoader(repo, 2, nil).Load(context.Background(), strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, repo.batches, 2)
	assert.Len(t, repo.batches[0], 2)
	assert.Len(t, repo.batches[1], 1)
	assert.Equal(t, "Akira", repo.batches[1][0].Title)
}

func TestLoad_InsertFailureKeepsCount(t *testing.T) {
	repo := &memRepo{failAt: 2}
	sum, err := NewLoader(repo, 2, nil).Load(context.Background(), strings.NewReader(sample))

	assert.Error(t, err)
	assert.Equal(t, int64(2), sum.Inserted)
}

func TestLoad_BadDocuments(t *testing.T) {
	for name, doc := range map[string]string{
		"not an object": `[1,2]`,
		"no data":       `{"license": {}}`,
		"data not list": `{"data": {}}`,
		"truncated":     `{"data": [{"title": "x"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader(&memRepo{}, 0, nil).Load(context.Background(), strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(&memRepo{}, 0, nil).Load(ctx, strings.NewReader(sample))
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	bucket, key string
	body        string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestOpener_S3(t *testing.T) {
	fs := &fakeS3{body: sample}
	rc, err := NewOpener(fs).Open(context.Background(), "s3://dumps/anime/offline.json")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, "dumps", fs.bucket)
	assert.Equal(t, "anime/offline.json", fs.key)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sample, string(b))
}

func TestOpener_S3Errors(t *testing.T) {
	_, err := NewOpener(nil).Open(context.Background(), "s3://b/k")
	assert.ErrorIs(t, err, ErrNoS3)

	_, err = NewOpener(&fakeS3{}).Open(context.Background(), "s3://bucket-only")
	assert.Error(t, err)
}

func TestOpener_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o600))

	rc, err := NewOpener(nil).Open(context.Background(), p)
	require.NoError(t, err)
	defer rc.Close()

	sum, err := NewLoader(&memRepo{}, 0, nil).Load(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.Inserted)

	_, err = NewOpener(nil).Open(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
