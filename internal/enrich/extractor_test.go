package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qepting91/tweet-miner/internal/domain"
	"github.com/qepting91/tweet-miner/internal/sentiment"
)

type fixedScorer struct {
	seen []string
}

func (f *fixedScorer) Analyze(text string) sentiment.Score {
	f.seen = append(f.seen, text)
	return sentiment.Score{Polarity: -0.25, Subjectivity: 0.75}
}

func fullPost() domain.Post {
	return domain.Post{
		ID:           99,
		CreatedAt:    time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC),
		Text:         "Café vaccine rollout",
		RetweetCount: 4,
		Author: &domain.Author{
			ID:        "1234",
			Name:      "Leen",
			Location:  "Singapore",
			Followers: 10,
			Friends:   11,
		},
		Place:    &domain.Place{Country: "China", Name: "Beijing"},
		Entities: &domain.Entities{Hashtags: []string{"sinovac", "covid"}},
	}
}

func TestExtract_AllFields(t *testing.T) {
	s := &fixedScorer{}
	rec := NewExtractor(s).Extract(fullPost())

	assert.Equal(t, domain.Record{
		Username:     "Leen",
		AuthorID:     "1234",
		Created:      time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC),
		UserLocation: "Singapore",
		Text:         "Cafe vaccine rollout",
		RetweetCount: 4,
		Hashtag:      "sinovac",
		Location:     "China, Beijing",
		Followers:    10,
		Friends:      11,
		Polarity:     -0.25,
		Subjectivity: 0.75,
	}, rec)
	assert.Equal(t, []string{"Cafe vaccine rollout"}, s.seen, "scores normalized text")
}

func TestExtract_MissingHashtags(t *testing.T) {
	tests := []struct {
		name     string
		entities *domain.Entities
	}{
		{"nil entities", nil},
		{"empty list", &domain.Entities{}},
		{"empty text", &domain.Entities{Hashtags: []string{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullPost()
			p.Entities = tt.entities
			rec := NewExtractor(&fixedScorer{}).Extract(p)

			assert.Equal(t, None, rec.Hashtag)
			assert.Equal(t, "Leen", rec.Username)
			assert.Equal(t, "China, Beijing", rec.Location)
			assert.Equal(t, 10, rec.Followers)
		})
	}
}

func TestExtract_Location(t *testing.T) {
	p := fullPost()
	p.Place = nil
	p.Coordinates = &domain.Coordinates{Lon: 103.8, Lat: 1.35}
	assert.Equal(t, "1.35, 103.8", NewExtractor(&fixedScorer{}).Extract(p).Location)

	p.Coordinates = nil
	assert.Equal(t, None, NewExtractor(&fixedScorer{}).Extract(p).Location)
}

func TestExtract_NoAuthor(t *testing.T) {
	p := fullPost()
	p.Author = nil
	rec := NewExtractor(&fixedScorer{}).Extract(p)
	assert.Empty(t, rec.Username)
	assert.Zero(t, rec.Followers)
	assert.Equal(t, "sinovac", rec.Hashtag)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "naive resume", Normalize("naïve résumé"))
	assert.Equal(t, "plain", Normalize("plain"))
}

func TestOptionalFields(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
		want  string
	}{
		{"present", "covid", true, "covid"},
		{"absent", "", false, None},
		{"present but empty", "", true, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, optional(tt.value, tt.ok))
		})
	}

	_, ok := firstHashtag(domain.Post{})
	assert.False(t, ok)
	tag, ok := firstHashtag(domain.Post{Entities: &domain.Entities{Hashtags: []string{"a", "b"}}})
	assert.True(t, ok)
	assert.Equal(t, "a", tag)

	_, ok = postLocation(domain.Post{})
	assert.False(t, ok)
}
