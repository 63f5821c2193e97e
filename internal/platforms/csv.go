package platforms

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvColumns is the required header set for review imports. Column order is
// free; matching is by header name, case-insensitive.
var csvColumns = []string{"review_id", "rating", "text", "author_name", "review_date"}

// RowError records why a single CSV row was rejected.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseCSV reads a review export and returns the parseable rows plus a
// per-row error list. A bad row never aborts the parse; only a malformed
// header or unreadable stream does.
func ParseCSV(r io.Reader) ([]FetchedReview, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("csv missing required column %q", col)
		}
	}

	var (
		reviews []FetchedReview
		rowErrs []RowError
		rowNum  = 1 // header was row 1
	)

	for {
		rowNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		review, err := parseCSVRow(record, index)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		reviews = append(reviews, review)
	}

	return reviews, rowErrs, nil
}

func parseCSVRow(record []string, index map[string]int) (FetchedReview, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	reviewID := field("review_id")
	if reviewID == "" {
		return FetchedReview{}, fmt.Errorf("review_id is required")
	}

	rating, err := strconv.Atoi(field("rating"))
	if err != nil {
		return FetchedReview{}, fmt.Errorf("rating must be an integer")
	}
	if rating < 1 || rating > 5 {
		return FetchedReview{}, fmt.Errorf("rating must be between 1 and 5")
	}

	reviewDate := time.Now().UTC()
	if raw := field("review_date"); raw != "" {
		parsed, err := parseCSVDate(raw)
		if err != nil {
			return FetchedReview{}, err
		}
		reviewDate = parsed
	}

	return FetchedReview{
		ReviewID:   reviewID,
		Rating:     rating,
		Text:       field("text"),
		AuthorName: field("author_name"),
		ReviewDate: reviewDate,
	}, nil
}

var csvDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCSVDate(raw string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("review_date %q is not a recognized date", raw)
}
