// Package currencyfile reads a static coin list from CSV and writes the
// registry's currencies back out for manual curation.
package currencyfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
)

var (
	sourceHeader = []string{"symbol", "name"}
	exportHeader = []string{"coin", "name", "token"}
)

// Load parses a `symbol,name` CSV into coin records. Blank rows are skipped.
func Load(r io.Reader) ([]domain.RawCoin, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("currency file is empty")
		}
		return nil, errors.Wrap(err, "failed to read currency file header")
	}

	symbolCol, nameCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case sourceHeader[0]:
			symbolCol = i
		case sourceHeader[1]:
			nameCol = i
		}
	}
	if symbolCol < 0 || nameCol < 0 {
		return nil, errors.Errorf("currency file header must contain %s, got %v", strings.Join(sourceHeader, ","), header)
	}

	var coins []domain.RawCoin
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read currency file")
		}
		if len(row) <= symbolCol || strings.TrimSpace(row[symbolCol]) == "" {
			continue
		}

		name := ""
		if len(row) > nameCol {
			name = strings.TrimSpace(row[nameCol])
		}
		coins = append(coins, domain.RawCoin{
			"symbol": strings.TrimSpace(row[symbolCol]),
			"name":   name,
		})
	}

	return coins, nil
}

// Source lists coins from a CSV file on every call.
type Source struct {
	path string
}

// NewSource creates a source reading the CSV file at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// ListCoins opens and parses the file.
func (s *Source) ListCoins(ctx context.Context) ([]domain.RawCoin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open currency file")
	}
	defer f.Close()

	return Load(f)
}

// Export writes currencies as `coin,name,token` rows. The token column is left empty.
func Export(w io.Writer, currencies []domain.Currency) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return errors.Wrap(err, "failed to write export header")
	}
	for _, c := range currencies {
		if err := writer.Write([]string{c.Symbol, c.Name, ""}); err != nil {
			return errors.Wrapf(err, "failed to write %s", c.Symbol)
		}
	}
	writer.Flush()

	return errors.Wrap(writer.Error(), "failed to flush export")
}

// ExportFile creates or truncates path and exports currencies into it.
func ExportFile(path string, currencies []domain.Currency) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}

	if err := Export(f, currencies); err != nil {
		f.Close()
		return err
	}

	return errors.Wrap(f.Close(), "failed to close export file")
}
