package census

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
	"k8s.io/klog/v2"
)

// Source describes where to read the CSV table from.
// Exactly one of FilePath or URL should be set.
type Source struct {
	FilePath string
	URL      string

	// Charset is the label of the encoding of the file (default utf-8).
	// For URLs, an empty Charset means the encoding is taken
	// from the Content-Type of the response.
	Charset string

	// Client is used for URL sources, http.DefaultClient if nil
	Client *http.Client
}

func (src Source) String() string {
	if src.FilePath != "" {
		return src.FilePath
	}
	return src.URL
}

// DataLoadError is returned when the source can't be read or is malformed.
// It is fatal for the whole rendering.
type DataLoadError struct {
	Source string
	Line   int // 0 when the error is not tied to a line
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("loading %s: line %d: %s", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("loading %s: %s", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

var (
	errNoSource = errors.New("either a file or an url must be provided")
	errEmpty    = errors.New("empty table")
)

type column uint8

const (
	colSex column = iota
	colVetGroup
	colEthnicGroup
	colRaceGroup
	colYears
	colCount
	nbColumns
)

var columnNames = [nbColumns]string{"sex", "vetGroup", "ethnicGroup", "raceGroup", "yearsInBusiness", "count"}

// accepted header names, after normalization
var columnAliases = map[string]column{
	"sex":                 colSex,
	"vetgroup":            colVetGroup,
	"veteranstatus":       colVetGroup,
	"ethnicgroup":         colEthnicGroup,
	"ethgroup":            colEthnicGroup,
	"ethnicity":           colEthnicGroup,
	"racegroup":           colRaceGroup,
	"race":                colRaceGroup,
	"yearsinbusiness":     colYears,
	"yearsinbusinesscode": colYears,
	"yibszfi":             colYears,
	"count":               colCount,
	"firmpdemp":           colCount,
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(h)
}

// Load reads the whole table described by `src`.
// Any failure is reported as a *DataLoadError.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	log := klog.FromContext(ctx)

	in, err := openSource(ctx, src)
	if err != nil {
		return nil, &DataLoadError{Source: src.String(), Err: err}
	}
	defer in.Close()

	records, unknown, err := ReadCSV(in)
	if err != nil {
		var le *DataLoadError
		if errors.As(err, &le) {
			le.Source = src.String()
			return nil, le
		}
		return nil, &DataLoadError{Source: src.String(), Err: err}
	}
	if unknown > 0 {
		log.Info("records with codes outside the known demographic tables", "source", src.String(), "count", unknown)
	}
	log.V(1).Info("dataset loaded", "source", src.String(), "records", len(records))
	return &Dataset{source: src.String(), records: records}, nil
}

// ReadCSV parses a UTF-8 CSV table with a header row.
// It also returns the number of records with unrecognized codes,
// which are kept but will not match any category.
func ReadCSV(in io.Reader) (records []Record, unknown int, err error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, 0, &DataLoadError{Err: errEmpty}
	}
	if err != nil {
		return nil, 0, &DataLoadError{Line: 1, Err: err}
	}

	var indexes [nbColumns]int
	for i := range indexes {
		indexes[i] = -1
	}
	for i, h := range header {
		col, ok := columnAliases[normalizeHeader(h)]
		if ok && indexes[col] == -1 {
			indexes[col] = i
		}
	}
	for col, index := range indexes {
		if index == -1 {
			return nil, 0, &DataLoadError{Line: 1, Err: fmt.Errorf("missing column %q", columnNames[col])}
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, 0, &DataLoadError{Line: pe.Line, Err: pe.Err}
			}
			return nil, 0, &DataLoadError{Err: err}
		}
		line, _ := r.FieldPos(0)

		rawCount := strings.TrimSpace(row[indexes[colCount]])
		count, err := strconv.ParseUint(rawCount, 10, 64)
		if err != nil {
			return nil, 0, &DataLoadError{Line: line, Err: fmt.Errorf("invalid count %q", rawCount)}
		}

		rec := Record{
			Sex:             Sex(strings.TrimSpace(row[indexes[colSex]])),
			VetGroup:        VetGroup(strings.TrimSpace(row[indexes[colVetGroup]])),
			EthnicGroup:     EthnicGroup(strings.TrimSpace(row[indexes[colEthnicGroup]])),
			RaceGroup:       RaceGroup(strings.TrimSpace(row[indexes[colRaceGroup]])),
			YearsInBusiness: YearsCode(strings.TrimSpace(row[indexes[colYears]])),
			Count:           count,
		}
		if !rec.knownCodes() {
			unknown++
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, 0, &DataLoadError{Err: errEmpty}
	}
	return records, unknown, nil
}

type decodedBody struct {
	io.Reader
	io.Closer
}

// openSource returns the source content, decoded to UTF-8
func openSource(ctx context.Context, src Source) (io.ReadCloser, error) {
	switch {
	case src.FilePath != "":
		f, err := os.Open(src.FilePath)
		if err != nil {
			return nil, err
		}
		label := src.Charset
		if label == "" {
			label = "utf-8"
		}
		r, err := charset.NewReaderLabel(label, f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("charset %q: %w", label, err)
		}
		return decodedBody{Reader: r, Closer: f}, nil
	case src.URL != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
		if err != nil {
			return nil, err
		}
		client := src.Client
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		var r io.Reader
		if src.Charset != "" {
			r, err = charset.NewReaderLabel(src.Charset, resp.Body)
		} else {
			r, err = charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
		}
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return decodedBody{Reader: r, Closer: resp.Body}, nil
	default:
		return nil, errNoSource
	}
}
