package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/qepting91/tweet-miner/internal/domain"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is an output file type.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (use csv, xlsx or ndjson)", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string { return "." + string(f) }

// Open creates (truncating) the file at path and writes the header.
// Callers must Close the returned sink.
func Open(path string, format Format) (domain.Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	switch format {
	case FormatCSV:
		return newCSVSink(path)
	case FormatNDJSON:
		return newNDJSONSink(path)
	case FormatXLSX:
		return newXLSXSink(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// CSVSink writes one flushed row per record.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

func newCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	s := &CSVSink{f: f, w: csv.NewWriter(f)}
	if err := s.write(domain.Header); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) Append(r domain.Record) error {
	return s.write(r.Row())
}

func (s *CSVSink) write(row []string) error {
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	return errors.Join(s.w.Error(), s.f.Close())
}

// NDJSONSink writes one JSON object per line.
type NDJSONSink struct {
	f   *os.File
	enc *json.Encoder
}

func newNDJSONSink(path string) (*NDJSONSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &NDJSONSink{f: f, enc: json.NewEncoder(f)}, nil
}

func (s *NDJSONSink) Append(r domain.Record) error {
	if err := s.enc.Encode(r); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

func (s *NDJSONSink) Close() error {
	return s.f.Close()
}

// XLSXSink fills a single sheet and saves the workbook on Close. Unlike the
// csv and ndjson sinks, nothing reaches disk until Close returns.
type XLSXSink struct {
	path string
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

const sheetName = "Posts"

func newXLSXSink(path string) (*XLSXSink, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open stream writer: %w", err)
	}
	s := &XLSXSink{path: path, file: f, sw: sw}
	header := make([]any, len(domain.Header))
	for i, h := range domain.Header {
		header[i] = h
	}
	if err := s.writeRow(header); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *XLSXSink) Append(r domain.Record) error {
	return s.writeRow([]any{
		r.Username, r.AuthorID, r.Created.UTC().Format(domain.CreatedLayout), r.UserLocation,
		r.Text, r.RetweetCount, r.Hashtag, r.Location, r.Followers, r.Friends,
		r.Polarity, r.Subjectivity,
	})
}

func (s *XLSXSink) writeRow(values []any) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", s.row, err)
	}
	return nil
}

func (s *XLSXSink) Close() error {
	defer s.file.Close()
	if err := s.sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx: %w", err)
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}
