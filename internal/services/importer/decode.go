package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/NordCoder/Animetrack/internal/domain/anime"
)

type record struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Episodes    int    `json:"episodes"`
	Status      string `json:"status"`
	AnimeSeason struct {
		Season string `json:"season"`
		Year   *int   `json:"year"`
	} `json:"animeSeason"`
	Synonyms []string `json:"synonyms"`
	Tags     []string `json:"tags"`
}

func (r record) toAnime() (anime.Anime, bool) {
	a := anime.Anime{
		Title:    r.Title,
		Type:     anime.NormalizeType(r.Type),
		Episodes: r.Episodes,
		Status:   anime.NormalizeStatus(r.Status),
		AnimeSeason: anime.AnimeSeason{
			Season: anime.NormalizeSeason(r.AnimeSeason.Season),
			Year:   r.AnimeSeason.Year,
		},
		Synonyms: r.Synonyms,
		Tags:     r.Tags,
	}
	normalized := string(a.Type) != r.Type || string(a.Status) != r.Status || string(a.AnimeSeason.Season) != r.AnimeSeason.Season
	return a, normalized
}

// decoder streams the entries of the "data" array without loading the whole
// document.
type decoder struct {
	dec *json.Decoder
}

func newDecoder(r io.Reader) (*decoder, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("find data: %w", err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return nil, errors.New("document has no data array")
		}
		if tok == "data" {
			break
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("skip field %v: %w", tok, err)
		}
	}
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	return &decoder{dec: dec}, nil
}

// next returns io.EOF after the last entry.
func (d *decoder) next() (record, error) {
	if !d.dec.More() {
		return record{}, io.EOF
	}
	var r record
	if err := d.dec.Decode(&r); err != nil {
		return record{}, fmt.Errorf("decode entry: %w", err)
	}
	return r, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read %q: %w", want, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
