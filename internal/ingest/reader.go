package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var ErrMalformedCredentials = errors.New("credential file needs four non-empty lines")

// Preset names are used in output file names.
var presetNameRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,40}$`)

// Credentials is the content of the four-line auth file.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Preset is a named search query.
type Preset struct {
	Name  string
	Query string
}

// LoadCredentials reads consumer key, consumer secret, access token and
// access secret from the first four non-empty lines of path.
func LoadCredentials(path string) (Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		return Credentials{}, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(stripBOM(f))
	for scanner.Scan() && len(lines) < 4 {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(lines) < 4 {
		return Credentials{}, fmt.Errorf("%s: %w (got %d)", path, ErrMalformedCredentials, len(lines))
	}
	return Credentials{
		ConsumerKey:    lines[0],
		ConsumerSecret: lines[1],
		AccessToken:    lines[2],
		AccessSecret:   lines[3],
	}, nil
}

// LoadPresets reads name,query rows, skipping the header and invalid rows.
func LoadPresets(path string) ([]Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	var presets []Preset
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		line++
		if line == 1 {
			continue
		}
		if len(record) < 2 {
			continue
		}

		// Validation (Fail-Soft)
		name := strings.TrimSpace(record[0])
		query := strings.TrimSpace(record[1])
		if !presetNameRegex.MatchString(name) || query == "" {
			continue
		}
		presets = append(presets, Preset{Name: name, Query: query})
	}
	return presets, nil
}

// FindPreset looks a preset up by case-insensitive name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
