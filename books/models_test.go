package books_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/bookshelf-go/books"
)

func TestDate_JSON(t *testing.T) {
	d, err := books.ParseDate("2020-05-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2020-05-01"` {
		t.Fatalf("marshaled = %s", out)
	}

	var back books.Date
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != "2020-05-01" {
		t.Fatalf("round trip = %q", back.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "01/05/2020", "2020-13-01", "not-a-date"} {
		if _, err := books.ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", s)
		}
	}
}

func TestParseUpdatableField(t *testing.T) {
	for _, name := range []string{"title", "author", "published_date", "summary", "genre"} {
		if _, ok := books.ParseUpdatableField(name); !ok {
			t.Errorf("expected %q to be updatable", name)
		}
	}
	for _, name := range []string{"id", "publisher", "Title", ""} {
		if _, ok := books.ParseUpdatableField(name); ok {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestUpdatableField_ParseValue(t *testing.T) {
	if _, err := books.FieldTitle.ParseValue("A fine title"); err != nil {
		t.Fatalf("title: %v", err)
	}
	if _, err := books.FieldTitle.ParseValue(""); err == nil {
		t.Fatal("expected empty title to be rejected")
	}
	if _, err := books.FieldTitle.ParseValue(strings.Repeat("x", 101)); err == nil {
		t.Fatal("expected over-long title to be rejected")
	}
	// Length limits count runes, not bytes.
	if _, err := books.FieldGenre.ParseValue(strings.Repeat("é", 50)); err != nil {
		t.Fatalf("50-rune genre rejected: %v", err)
	}

	if _, err := books.FieldPublishedDate.ParseValue("2020-05-01"); err != nil {
		t.Fatalf("published_date: %v", err)
	}
	if _, err := books.FieldPublishedDate.ParseValue("05/01/2020"); err == nil {
		t.Fatal("expected malformed date to be rejected")
	}
}
