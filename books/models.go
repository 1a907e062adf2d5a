// Package books implements the book resource: the data model, the
// relational store and the HTTP handlers for listing, creating, updating
// and deleting records.
package books

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// dateLayout is the wire and storage format for published dates.
const dateLayout = "2006-01-02"

// ErrInvalidDate is returned when a published_date value cannot be parsed
// as an ISO-8601 calendar date.
var ErrInvalidDate = fmt.Errorf("invalid date: expected YYYY-MM-DD")

// Date is a calendar date. It marshals to a bare ISO-8601 date in JSON and
// round-trips through DATE columns on both supported drivers (pgx returns
// time.Time, sqlite3 returns the stored text).
type Date struct {
	time.Time
}

// ParseDate parses an ISO-8601 calendar date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the date in ISO-8601 form.
func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer, storing the date as its ISO-8601 string.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("cannot scan %q into Date: %w", v, err)
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Book represents a book record. ID is nil on create payloads and assigned
// by the store; the validate tags mirror the column constraints.
type Book struct {
	ID            *int64 `json:"id" db:"id"`
	Title         string `json:"title" db:"title" validate:"required,max=100"`
	Author        string `json:"author" db:"author" validate:"required,max=100"`
	PublishedDate Date   `json:"published_date" db:"published_date" validate:"required"`
	Summary       string `json:"summary" db:"summary" validate:"required,max=500"`
	Genre         string `json:"genre" db:"genre" validate:"required,max=50"`
}

// UpdatableField enumerates the columns a partial update may touch. Using a
// typed enum keeps the allow-list a compile-time concern instead of a
// runtime string-membership check.
type UpdatableField string

const (
	FieldTitle         UpdatableField = "title"
	FieldAuthor        UpdatableField = "author"
	FieldPublishedDate UpdatableField = "published_date"
	FieldSummary       UpdatableField = "summary"
	FieldGenre         UpdatableField = "genre"
)

// updatableFields lists the allow-list in column order, which also fixes
// the SET-clause order of dynamic updates.
var updatableFields = []UpdatableField{
	FieldTitle,
	FieldAuthor,
	FieldPublishedDate,
	FieldSummary,
	FieldGenre,
}

// fieldMaxLen holds the length constraint for each text field, counted in
// runes to match the JSON-level validation.
var fieldMaxLen = map[UpdatableField]int{
	FieldTitle:   100,
	FieldAuthor:  100,
	FieldSummary: 500,
	FieldGenre:   50,
}

// ParseUpdatableField resolves a request-supplied field name against the
// allow-list.
func ParseUpdatableField(name string) (UpdatableField, bool) {
	for _, f := range updatableFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// ParseValue validates and converts a string value for this field, returning
// the driver-ready value. Text fields must be non-empty and within their
// length constraint; published_date must parse as a calendar date.
func (f UpdatableField) ParseValue(value string) (interface{}, error) {
	if f == FieldPublishedDate {
		d, err := ParseDate(value)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	n := utf8.RuneCountInString(value)
	if n < 1 || n > fieldMaxLen[f] {
		return nil, fmt.Errorf("value for %s must be between 1 and %d characters", f, fieldMaxLen[f])
	}
	return value, nil
}
