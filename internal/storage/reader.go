package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/qepting91/tweet-miner/internal/domain"
)

// ReadRecords loads every record from an output file, picking the decoder
// from the file extension. Rows that do not parse are skipped.
func ReadRecords(path string) ([]domain.Record, error) {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatNDJSON:
		return readNDJSON(path)
	case FormatXLSX:
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(domain.Header)
	var records []domain.Record
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, err
		}
		if first {
			first = false
			continue
		}
		if rec, ok := parseRow(row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readNDJSON(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []domain.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec domain.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, scanner.Err()
}

func readXLSX(path string) ([]domain.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}
	var records []domain.Record
	for i, row := range rows {
		if i == 0 || len(row) != len(domain.Header) {
			continue
		}
		if rec, ok := parseRow(row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func parseRow(row []string) (domain.Record, bool) {
	created, err := time.Parse(domain.CreatedLayout, row[2])
	if err != nil {
		return domain.Record{}, false
	}
	retwc, err1 := strconv.Atoi(row[5])
	followers, err2 := strconv.Atoi(row[8])
	friends, err3 := strconv.Atoi(row[9])
	pol, err4 := strconv.ParseFloat(row[10], 64)
	subj, err5 := strconv.ParseFloat(row[11], 64)
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			return domain.Record{}, false
		}
	}
	return domain.Record{
		Username:     row[0],
		AuthorID:     row[1],
		Created:      created,
		UserLocation: row[3],
		Text:         row[4],
		RetweetCount: retwc,
		Hashtag:      row[6],
		Location:     row[7],
		Followers:    followers,
		Friends:      friends,
		Polarity:     pol,
		Subjectivity: subj,
	}, true
}
