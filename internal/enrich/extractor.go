// Package enrich turns raw search results into flat output records.
package enrich

import (
	"strconv"

	"github.com/mozillazg/go-unidecode"

	"github.com/qepting91/tweet-miner/internal/domain"
	"github.com/qepting91/tweet-miner/internal/sentiment"
)

// None is written for optional fields that could not be extracted.
const None = "None"

// Scorer scores normalized text.
type Scorer interface {
	Analyze(text string) sentiment.Score
}

// Extractor maps posts to records.
type Extractor struct {
	scorer Scorer
}

func NewExtractor(scorer Scorer) *Extractor {
	return &Extractor{scorer: scorer}
}

// Extract builds a record from p. It never fails: optional substructures that
// are missing become None.
func (e *Extractor) Extract(p domain.Post) domain.Record {
	text := Normalize(p.Text)
	score := e.scorer.Analyze(text)

	rec := domain.Record{
		Created:      p.CreatedAt,
		Text:         text,
		RetweetCount: p.RetweetCount,
		Hashtag:      optional(firstHashtag(p)),
		Location:     optional(postLocation(p)),
		Polarity:     score.Polarity,
		Subjectivity: score.Subjectivity,
	}
	if a := p.Author; a != nil {
		rec.Username = a.Name
		rec.AuthorID = a.ID
		rec.UserLocation = a.Location
		rec.Followers = a.Followers
		rec.Friends = a.Friends
	}
	return rec
}

// optional returns v when it was present and non-empty, else None.
func optional(v string, ok bool) string {
	if !ok || v == "" {
		return None
	}
	return v
}

func firstHashtag(p domain.Post) (string, bool) {
	if p.Entities == nil || len(p.Entities.Hashtags) == 0 {
		return "", false
	}
	return p.Entities.Hashtags[0], true
}

func postLocation(p domain.Post) (string, bool) {
	switch {
	case p.Place != nil:
		return p.Place.Country + ", " + p.Place.Name, true
	case p.Coordinates != nil:
		return strconv.FormatFloat(p.Coordinates.Lat, 'f', -1, 64) + ", " +
			strconv.FormatFloat(p.Coordinates.Lon, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Normalize transliterates text to ASCII.
func Normalize(text string) string {
	return unidecode.Unidecode(text)
}
