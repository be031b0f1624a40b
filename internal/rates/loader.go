package rates

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// fileLoader implements Loader for reading rate files from disk.
type fileLoader struct {
	base   string
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based rate loader.
func NewFileLoader(base string, logger zerolog.Logger) Loader {
	return &fileLoader{
		base:   base,
		logger: logger.With().Str("component", "rate-loader").Logger(),
	}
}

// Load reads a rate file and returns a Table. Files ending in .gz are
// decompressed first.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Table, error) {
	l.logger.Info().Str("file", filePath).Msg("loading rate file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open rate file")
		return nil, fmt.Errorf("failed to open rate file %s: %w", filePath, err)
	}
	defer file.Close()

	table, err := parse(ctx, file, filePath, l.base)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to parse rate file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("rates_loaded", len(table.Codes())).
		Msg("rate file loaded successfully")

	return table, nil
}

// parse reads one rate per line:
//
//	CODE RATE [SYMBOL] [suffix]
//
// Blank lines and lines starting with # are skipped.
func parse(ctx context.Context, r io.Reader, name, base string) (Table, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	table := newMapTable(base)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 4 {
			return nil, fmt.Errorf("%s:%d: expected CODE RATE [SYMBOL] [suffix]", name, lineNo)
		}

		perBase, err := decimal.NewFromString(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid rate %q: %w", name, lineNo, fields[1], err)
		}

		rate := Rate{Code: fields[0], PerBase: perBase, Symbol: fields[0]}
		if len(fields) >= 3 {
			rate.Symbol = fields[2]
		}
		if len(fields) == 4 {
			if fields[3] != "suffix" && fields[3] != "prefix" {
				return nil, fmt.Errorf("%s:%d: symbol position must be prefix or suffix", name, lineNo)
			}
			rate.Suffix = fields[3] == "suffix"
		}
		table.Add(rate)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading rate file %s: %w", name, err)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate file %s: %w", name, err)
	}

	return table, nil
}
