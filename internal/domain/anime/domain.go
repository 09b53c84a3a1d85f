package anime

type Type string

const (
	TypeTV      Type = "TV"
	TypeMovie   Type = "MOVIE"
	TypeOVA     Type = "OVA"
	TypeONA     Type = "ONA"
	TypeSpecial Type = "SPECIAL"
	TypeUnknown Type = "UNKNOWN"
)

type Status string

const (
	StatusFinished Status = "FINISHED"
	StatusOngoing  Status = "ONGOING"
	StatusUpcoming Status = "UPCOMING"
	StatusUnknown  Status = "UNKNOWN"
)

type Season string

const (
	SeasonSpring    Season = "SPRING"
	SeasonSummer    Season = "SUMMER"
	SeasonFall      Season = "FALL"
	SeasonWinter    Season = "WINTER"
	SeasonUndefined Season = "UNDEFINED"
)

type AnimeSeason struct {
	Season Season `json:"season"`
	Year   *int   `json:"year,omitempty"`
}

type Anime struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Type        Type        `json:"type"`
	Episodes    int         `json:"episodes"`
	Status      Status      `json:"status"`
	AnimeSeason AnimeSeason `json:"animeSeason"`
	Synonyms    []string    `json:"synonyms"`
	Tags        []string    `json:"tags"`
}

// Filter narrows a catalog query. Zero values are ignored.
type Filter struct {
	Title  string
	Type   string
	Status string
	Season string
	Year   *int
	Tags   []string
}

type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int { return (p.Number - 1) * p.Limit }

// NormalizeType maps anything outside the known set to TypeUnknown.
func NormalizeType(s string) Type {
	switch t := Type(s); t {
	case TypeTV, TypeMovie, TypeOVA, TypeONA, TypeSpecial:
		return t
	default:
		return TypeUnknown
	}
}

func NormalizeStatus(s string) Status {
	switch st := Status(s); st {
	case StatusFinished, StatusOngoing, StatusUpcoming:
		return st
	default:
		return StatusUnknown
	}
}

func NormalizeSeason(s string) Season {
	switch se := Season(s); se {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return se
	default:
		return SeasonUndefined
	}
}
