package dataprocessing

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"salescli/internal/errors"
	"salescli/internal/salesdata"
)

// LoaderConfig holds the input options for a Loader
type LoaderConfig struct {
	File       string
	Encodings  []string
	DateColumn string
}

// LoadReport accounts for the rows seen while loading
type LoadReport struct {
	File         string
	Encoding     string
	RowsRead     int
	InvalidDates int
}

// RowsKept returns the number of rows left after date parsing
func (r LoadReport) RowsKept() int {
	return r.RowsRead - r.InvalidDates
}

// Loader reads the sales file into a table and parses its date column
type Loader struct {
	logger *slog.Logger
	config LoaderConfig
	parse  func(string) (time.Time, error)
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger, config LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger,
		config: config,
		parse:  parseDate,
	}
}

// Load reads the configured file with the first encoding that decodes it,
// then parses the date column and removes rows whose date does not parse.
func (l *Loader) Load(ctx context.Context) (*salesdata.Table, LoadReport, error) {
	report := LoadReport{File: l.config.File}

	raw, err := os.ReadFile(l.config.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, report, errors.NewNotFoundError(l.config.File, err)
		}
		return nil, report, errors.NewStorageError(fmt.Sprintf("failed to read %s", l.config.File), err)
	}

	text, enc, err := l.decode(ctx, raw)
	if err != nil {
		return nil, report, err
	}
	report.Encoding = enc

	table, err := salesdata.ReadCSV(bytes.NewReader(text))
	if err != nil {
		return nil, report, errors.NewParsingError(fmt.Sprintf("failed to parse %s", l.config.File), err)
	}
	report.RowsRead = table.Nrow()

	l.logger.InfoContext(ctx, "Sales file loaded",
		slog.String("file", l.config.File),
		slog.String("encoding", enc),
		slog.Int("rows", report.RowsRead),
		slog.Int("columns", len(table.Names())))

	if !table.HasColumn(l.config.DateColumn) {
		return nil, report, errors.NewMissingColumnError(l.config.DateColumn)
	}

	dropped, err := table.ParseTimes(l.config.DateColumn, l.parse)
	if err != nil {
		return nil, report, errors.NewParsingError(fmt.Sprintf("failed to parse %s", l.config.DateColumn), err)
	}
	report.InvalidDates = dropped

	if dropped > 0 {
		l.logger.WarnContext(ctx, "Dropped rows with invalid dates",
			slog.String("column", l.config.DateColumn),
			slog.Int("dropped", dropped),
			slog.Int("remaining", table.Nrow()))
	}

	return table, report, nil
}

func (l *Loader) decode(ctx context.Context, raw []byte) ([]byte, string, error) {
	for _, name := range l.config.Encodings {
		text, err := decodeBytes(raw, name)
		if err == nil {
			return text, name, nil
		}
		l.logger.DebugContext(ctx, "Encoding rejected",
			slog.String("encoding", name),
			slog.String("error", err.Error()))
	}
	return nil, "", errors.NewDecodingError(l.config.File, l.config.Encodings,
		fmt.Errorf("no candidate encoding decoded the file"))
}

// decodeBytes converts raw bytes in the named encoding to UTF-8. It fails when
// the encoding is unknown, when the decoder errors, or when a byte has no
// mapping in the encoding.
func decodeBytes(raw []byte, name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "utf-8" || key == "utf8" {
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("invalid utf-8")
		}
		return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil
	}

	enc, err := lookupEncoding(key)
	if err != nil {
		return nil, err
	}

	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if bytes.ContainsRune(text, utf8.RuneError) && !bytes.ContainsRune(raw, utf8.RuneError) {
		return nil, fmt.Errorf("decode %s: undefined byte sequence", name)
	}
	return text, nil
}

var encodingAliases = map[string]encoding.Encoding{
	"latin-1":      charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"windows-1250": charmap.Windows1250,
	"cp1250":       charmap.Windows1250,
	"iso-8859-15":  charmap.ISO8859_15,
	"latin-9":      charmap.ISO8859_15,
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, ok := encodingAliases[name]; ok {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func parseDate(s string) (time.Time, error) {
	return dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
}
