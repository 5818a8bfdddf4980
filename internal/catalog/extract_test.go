package catalog

import (
	"reflect"
	"testing"
)

func TestExtractISBN(t *testing.T) {
	tests := []struct {
		name string
		ids  []TypedNode
		want string
	}{
		{
			name: "plain 13 digit",
			ids:  []TypedNode{{Type: "dcndl:ISBN", Text: "9784101010014"}},
			want: "9784101010014",
		},
		{
			name: "hyphenated",
			ids:  []TypedNode{{Type: "dcndl:ISBN", Text: "978-4-10-101001-4"}},
			want: "9784101010014",
		},
		{
			name: "prefers 13 over 10",
			ids: []TypedNode{
				{Type: "dcndl:ISBN", Text: "4101010013"},
				{Type: "dcndl:ISBN", Text: "9784101010014"},
			},
			want: "9784101010014",
		},
		{
			name: "lowercase check digit",
			ids:  []TypedNode{{Type: "dcndl:ISBN", Text: "410101001x"}},
			want: "410101001X",
		},
		{
			name: "invalid length skipped",
			ids: []TypedNode{
				{Type: "dcndl:ISBN", Text: "12345"},
				{Type: "dcndl:ISBN", Text: "4101010013"},
			},
			want: "4101010013",
		},
		{
			name: "non-isbn identifiers ignored",
			ids: []TypedNode{
				{Type: "dcndl:JPNO", Text: "22222222"},
				{Type: "dcndl:ISBN", Text: "9784101010014"},
			},
			want: "9784101010014",
		},
		{
			name: "untyped identifier ignored",
			ids:  []TypedNode{{Text: "9784101010014"}},
			want: "",
		},
		{
			name: "empty",
			ids:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractISBN(tt.ids); got != tt.want {
				t.Errorf("ExtractISBN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractNDC(t *testing.T) {
	subjects := []TypedNode{
		{Text: "日本文学"},
		{Type: "dcndl:NDLSH", Text: "小説"},
		{Type: "dcndl:NDC9", Text: "913.6"},
		{Type: "dcndl:NDC8", Text: "913"},
	}
	if got := ExtractNDC(subjects); got != "913.6" {
		t.Errorf("ExtractNDC() = %q, want %q", got, "913.6")
	}
	if got := ExtractNDC(nil); got != "" {
		t.Errorf("ExtractNDC(nil) = %q, want empty", got)
	}
}

func TestSubjectNames(t *testing.T) {
	subjects := []TypedNode{
		{Type: "dcndl:NDC9", Text: "913.6"},
		{Type: "dcndl:NDLSH", Text: "小説"},
		{Text: "日本文学"},
		{Text: "  "},
	}
	want := []string{"小説", "日本文学"}
	if got := SubjectNames(subjects); !reflect.DeepEqual(got, want) {
		t.Errorf("SubjectNames() = %v, want %v", got, want)
	}
}

func TestSplitNDC(t *testing.T) {
	tests := []struct {
		code string
		want *Classification
	}{
		{"913.6", &Classification{Code: "913.6", Level1: "9", Level2: "91", Level3: "913"}},
		{"91", &Classification{Code: "91", Level1: "9", Level2: "91"}},
		{"9", &Classification{Code: "9", Level1: "9"}},
		{"", nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		got := SplitNDC(tt.code)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitNDC(%q) = %+v, want %+v", tt.code, got, tt.want)
		}
	}
}

func TestFirstValue(t *testing.T) {
	nodes := []Node{{Text: "  "}, {Text: " こころ "}, {Text: "other"}}
	if got := FirstValue(nodes); got != "こころ" {
		t.Errorf("FirstValue() = %q, want %q", got, "こころ")
	}
	if got := FirstValue(nil); got != "" {
		t.Errorf("FirstValue(nil) = %q, want empty", got)
	}
}

func TestValues(t *testing.T) {
	nodes := []Node{{Text: "夏目漱石"}, {Text: ""}, {Text: " 森鴎外 "}}
	want := []string{"夏目漱石", "森鴎外"}
	if got := Values(nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}

func TestParseItemsDropsMissingISBN(t *testing.T) {
	items := []Item{
		{
			Titles:      []Node{{Text: "こころ"}},
			Identifiers: []TypedNode{{Type: "dcndl:ISBN", Text: "9784101010014"}},
		},
		{
			Titles:      []Node{{Text: "no isbn"}},
			Identifiers: []TypedNode{{Type: "dcndl:JPNO", Text: "12345678"}},
		},
	}

	books := parseItems(items)
	if len(books) != 1 {
		t.Fatalf("parseItems() returned %d books, want 1", len(books))
	}
	if books[0].ISBN != "9784101010014" || books[0].Title != "こころ" {
		t.Errorf("unexpected book: %+v", books[0])
	}
	if books[0].Cover != NoImage {
		t.Errorf("cover = %q, want placeholder", books[0].Cover)
	}
}
