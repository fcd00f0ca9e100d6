package domain

import (
	"fmt"
	"strconv"
)

// Disc attribute names.
const (
	AttrDuration    = "duration"
	AttrRating      = "rating"
	AttrGenre       = "genre"
	AttrReleaseYear = "release_year"
	AttrDescription = "description"
	AttrSeason      = "season"
	AttrEpisodes    = "episodes"
	AttrTracks      = "tracks"
	AttrArtist      = "artist"
)

// disc carries what every blu-ray variant has on top of Base.
type disc struct {
	Base
	duration int
	rating   string
}

func newDisc(name string, price float64, duration int, rating string) (disc, error) {
	base, err := newBase(name, price)
	if err != nil {
		return disc{}, err
	}
	if err := validateNonNegative(AttrDuration, duration); err != nil {
		return disc{}, err
	}
	return disc{Base: base, duration: duration, rating: rating}, nil
}

// Duration is the running time in minutes.
func (d *disc) Duration() int { return d.duration }

func (d *disc) Rating() string { return d.rating }

func (d *disc) SetDuration(minutes int) error {
	if err := validateNonNegative(AttrDuration, minutes); err != nil {
		return err
	}
	d.duration = minutes
	return nil
}

func (d *disc) SetRating(rating string) error {
	d.rating = rating
	return nil
}

func (d *disc) discAttributes() attributeTable {
	return d.commonAttributes().with(attributeTable{
		AttrDuration: {get: func() string { return strconv.Itoa(d.duration) }, set: intSetter(AttrDuration, d.SetDuration)},
		AttrRating:   {get: d.Rating, set: d.SetRating},
	})
}

// MovieDisc is a single feature film.
type MovieDisc struct {
	disc
	genre       string
	releaseYear int
}

// NewMovieDisc validates and builds a movie disc.
func NewMovieDisc(name string, price float64, duration int, genre, rating string, releaseYear int) (*MovieDisc, error) {
	d, err := newDisc(name, price, duration, rating)
	if err != nil {
		return nil, err
	}
	if err := validateNonNegative(AttrReleaseYear, releaseYear); err != nil {
		return nil, err
	}
	return &MovieDisc{disc: d, genre: genre, releaseYear: releaseYear}, nil
}

func (m *MovieDisc) Kind() ItemKind { return KindMovieDisc }

func (m *MovieDisc) Genre() string { return m.genre }

func (m *MovieDisc) ReleaseYear() int { return m.releaseYear }

func (m *MovieDisc) SetGenre(genre string) error {
	m.genre = genre
	return nil
}

func (m *MovieDisc) SetReleaseYear(year int) error {
	if err := validateNonNegative(AttrReleaseYear, year); err != nil {
		return err
	}
	m.releaseYear = year
	return nil
}

func (m *MovieDisc) Describe() string {
	return fmt.Sprintf("%s, %d min, %s, %s, %d",
		m.describePrefix("MOVIE"), m.duration, m.rating, m.genre, m.releaseYear)
}

func (m *MovieDisc) attributes() attributeTable {
	return m.discAttributes().with(attributeTable{
		AttrGenre:       {get: m.Genre, set: m.SetGenre},
		AttrReleaseYear: {get: func() string { return strconv.Itoa(m.releaseYear) }, set: intSetter(AttrReleaseYear, m.SetReleaseYear)},
	})
}

// SeriesDisc is one season of a series. Episodes are recorded by running time.
type SeriesDisc struct {
	disc
	genre       string
	description string
	season      int
	episodes    []int
}

// NewSeriesDisc validates and builds a series disc with no episodes.
func NewSeriesDisc(name string, price float64, description string, duration int, rating, genre string, season int) (*SeriesDisc, error) {
	d, err := newDisc(name, price, duration, rating)
	if err != nil {
		return nil, err
	}
	if err := validateNonNegative(AttrSeason, season); err != nil {
		return nil, err
	}
	return &SeriesDisc{disc: d, genre: genre, description: description, season: season}, nil
}

func (s *SeriesDisc) Kind() ItemKind { return KindSeriesDisc }

func (s *SeriesDisc) Genre() string { return s.genre }

func (s *SeriesDisc) Description() string { return s.description }

func (s *SeriesDisc) Season() int { return s.season }

// Episodes returns the running time of each recorded episode.
func (s *SeriesDisc) Episodes() []int {
	return append([]int(nil), s.episodes...)
}

// AddEpisode records an episode of the given running time.
func (s *SeriesDisc) AddEpisode(minutes int) error {
	if err := validateNonNegative(AttrDuration, minutes); err != nil {
		return err
	}
	s.episodes = append(s.episodes, minutes)
	return nil
}

func (s *SeriesDisc) SetGenre(genre string) error {
	s.genre = genre
	return nil
}

func (s *SeriesDisc) SetDescription(description string) error {
	s.description = description
	return nil
}

func (s *SeriesDisc) SetSeason(season int) error {
	if err := validateNonNegative(AttrSeason, season); err != nil {
		return err
	}
	s.season = season
	return nil
}

func (s *SeriesDisc) Describe() string {
	return fmt.Sprintf("%s, %s, %d min, %s, %s, season %d, %d episodes",
		s.describePrefix("SERIES"), s.description, s.duration, s.rating, s.genre, s.season, len(s.episodes))
}

func (s *SeriesDisc) attributes() attributeTable {
	return s.discAttributes().with(attributeTable{
		AttrGenre:       {get: s.Genre, set: s.SetGenre},
		AttrDescription: {get: s.Description, set: s.SetDescription},
		AttrSeason:      {get: func() string { return strconv.Itoa(s.season) }, set: intSetter(AttrSeason, s.SetSeason)},
		AttrEpisodes:    {get: func() string { return strconv.Itoa(len(s.episodes)) }},
	})
}

// ShowDisc is a recorded live performance.
type ShowDisc struct {
	disc
	tracks int
	artist string
}

// NewShowDisc validates and builds a show disc.
func NewShowDisc(name string, price float64, duration, tracks int, artist, rating string) (*ShowDisc, error) {
	d, err := newDisc(name, price, duration, rating)
	if err != nil {
		return nil, err
	}
	if err := validateNonNegative(AttrTracks, tracks); err != nil {
		return nil, err
	}
	return &ShowDisc{disc: d, tracks: tracks, artist: artist}, nil
}

func (s *ShowDisc) Kind() ItemKind { return KindShowDisc }

func (s *ShowDisc) Tracks() int { return s.tracks }

func (s *ShowDisc) Artist() string { return s.artist }

func (s *ShowDisc) SetTracks(tracks int) error {
	if err := validateNonNegative(AttrTracks, tracks); err != nil {
		return err
	}
	s.tracks = tracks
	return nil
}

func (s *ShowDisc) SetArtist(artist string) error {
	s.artist = artist
	return nil
}

func (s *ShowDisc) Describe() string {
	return fmt.Sprintf("%s, %d min, %d tracks, %s, %s",
		s.describePrefix("SHOW"), s.duration, s.tracks, s.artist, s.rating)
}

func (s *ShowDisc) attributes() attributeTable {
	return s.discAttributes().with(attributeTable{
		AttrTracks: {get: func() string { return strconv.Itoa(s.tracks) }, set: intSetter(AttrTracks, s.SetTracks)},
		AttrArtist: {get: s.Artist, set: s.SetArtist},
	})
}
