package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/exhyte/internal/models"
)

func TestParse_FullRecord(t *testing.T) {
	input := []byte(`{
		"paper_title": "AI-Scientist-v2",
		"title": "ignored",
		"authors": ["Yutaro Yamada", "Robert Tjarko Lange"],
		"published": "2025-04-10",
		"subject_area": {"areas": ["Computer Science", {"name": "Machine Learning"}]},
		"resource_link": {"answer": "https://arxiv.org/abs/2504.08066"},
		"summary": {"answer": "Agentic tree search.", "evidence": "Section 3"}
	}`)
	p, err := Parse("ai-scientist.json", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "ai-scientist" {
		t.Errorf("id = %q, want %q", p.ID, "ai-scientist")
	}
	if p.Title != "AI-Scientist-v2" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Authors != "Yutaro Yamada, Robert Tjarko Lange" {
		t.Errorf("authors = %q", p.Authors)
	}
	if p.Published != (models.Date{Year: 2025, Month: 4, Day: 10}) {
		t.Errorf("published = %+v", p.Published)
	}
	if len(p.Topics) != 2 || p.Topics[0] != "Computer Science" || p.Topics[1] != "Machine Learning" {
		t.Errorf("topics = %v", p.Topics)
	}
	if p.Link != "https://arxiv.org/abs/2504.08066" {
		t.Errorf("link = %q", p.Link)
	}
	if string(p.Raw) != string(input) {
		t.Error("raw payload should be kept verbatim")
	}
	if p.Checksum == "" {
		t.Error("expected checksum")
	}
}

func TestParse_TitleFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"paper_title wins", `{"paper_title": "A", "title": "B"}`, "A"},
		{"title when paper_title empty", `{"paper_title": "  ", "title": "B"}`, "B"},
		{"title when paper_title null", `{"paper_title": null, "title": "B"}`, "B"},
		{"filename when both missing", `{}`, "x.json"},
		{"filename when wrong type", `{"title": 42}`, "x.json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse("x.json", []byte(tc.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Title != tc.want {
				t.Errorf("title = %q, want %q", p.Title, tc.want)
			}
		})
	}
}

func TestParse_TopicsDefaultToUnknown(t *testing.T) {
	inputs := []string{
		`{"title": "no subject"}`,
		`{"subject_area": null}`,
		`{"subject_area": {}}`,
		`{"subject_area": {"areas": []}}`,
		`{"subject_area": {"areas": "Biology"}}`,
		`{"subject_area": "Biology"}`,
		`{"subject_area": {"areas": [null, {"name": ""}, true]}}`,
	}
	for _, in := range inputs {
		p, err := Parse("t.json", []byte(in))
		if err != nil {
			t.Fatalf("Parse(%s): %v", in, err)
		}
		if len(p.Topics) == 0 {
			t.Fatalf("Parse(%s): topics must never be empty", in)
		}
	}

	p, _ := Parse("t.json", []byte(`{"subject_area": {"areas": []}}`))
	if len(p.Topics) != 1 || p.Topics[0] != models.UnknownTopic {
		t.Errorf("topics = %v, want [%s]", p.Topics, models.UnknownTopic)
	}
}

func TestParse_SubjectAreaAsList(t *testing.T) {
	p, err := Parse("t.json", []byte(`{"subject_area": ["Chemistry", "Biology"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(p.Topics, "|") != "Chemistry|Biology" {
		t.Errorf("topics = %v", p.Topics)
	}
}

func TestParse_TopicsKeepSourceOrderAndDuplicates(t *testing.T) {
	p, _ := Parse("t.json", []byte(`{"subject_area": {"areas": ["B", "A", "B"]}}`))
	if strings.Join(p.Topics, "|") != "B|A|B" {
		t.Errorf("topics = %v", p.Topics)
	}
}

func TestParse_Authors(t *testing.T) {
	cases := map[string]string{
		`{"authors": "Ada Lovelace and Charles Babbage"}`:   "Ada Lovelace and Charles Babbage",
		`{"authors": ["Ada", {"name": "Charles"}, null, 7]}`: "Ada, Charles, 7",
		`{"authors": {"name": "nested"}}`:                   "",
		`{"authors": []}`:                                   "",
		`{}`:                                                "",
	}
	for in, want := range cases {
		p, err := Parse("a.json", []byte(in))
		if err != nil {
			t.Fatalf("Parse(%s): %v", in, err)
		}
		if p.Authors != want {
			t.Errorf("Parse(%s).Authors = %q, want %q", in, p.Authors, want)
		}
	}
}

func TestParse_DatePrecedence(t *testing.T) {
	cases := []struct {
		input string
		want  models.Date
	}{
		{`{"year": 2021, "published": "2023-05-01"}`, models.Date{Year: 2021}},
		{`{"year": "n/a", "published": "2023-05-01"}`, models.Date{Year: 2023, Month: 5, Day: 1}},
		{`{"date": "2020-02"}`, models.Date{Year: 2020, Month: 2}},
		{`{"publication_date": "Published in Nature, 2019"}`, models.Date{Year: 2019}},
		{`{"published": "unknown"}`, models.Date{}},
		{`{"published": ["2020"]}`, models.Date{}},
	}
	for _, tc := range cases {
		p, err := Parse("d.json", []byte(tc.input))
		if err != nil {
			t.Fatalf("Parse(%s): %v", tc.input, err)
		}
		if p.Published != tc.want {
			t.Errorf("Parse(%s).Published = %+v, want %+v", tc.input, p.Published, tc.want)
		}
	}
}

func TestParse_LinkFallbacks(t *testing.T) {
	cases := map[string]string{
		`{"link": "https://a", "resource_url": "https://b"}`: "https://a",
		`{"resource_url": "https://b"}`:                      "https://b",
		`{"resource_link": {"answer": "https://c"}}`:         "https://c",
		`{"resource_link": "https://c"}`:                     "",
		`{"url": "https://d"}`:                               "https://d",
	}
	for in, want := range cases {
		p, _ := Parse("l.json", []byte(in))
		if p.Link != want {
			t.Errorf("Parse(%s).Link = %q, want %q", in, p.Link, want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed":      `{"title": `,
		"trailing data":  `{"title": "a"} {"title": "b"}`,
		"array document": `[{"title": "a"}]`,
		"string":         `"title"`,
		"empty":          ``,
	}
	for name, in := range cases {
		if _, err := Parse("e.json", []byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := Parse("e.json", []byte(`[1]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("array document error = %v, want ErrNotObject", err)
	}
}

func TestParse_ByteOrderMark(t *testing.T) {
	p, err := Parse("bom.json", append([]byte{0xEF, 0xBB, 0xBF}, `{"title": "BOM"}`...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title != "BOM" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestParse_KeywordSearchCoversWholeDocument(t *testing.T) {
	p, _ := Parse("k.json", []byte(`{"title": "X", "method": [{"name": "MCTS", "description": "Monte Carlo Tree Search über alles"}]}`))
	for _, kw := range []string{"monte carlo", "MCTS", "über", "method"} {
		if !p.Matches(kw) {
			t.Errorf("expected keyword %q to match", kw)
		}
	}
	if p.Matches("absent-term") {
		t.Error("unexpected match")
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"paper1.json":  "paper1",
		"Paper.JSON":   "Paper",
		"a.b.json":     "a.b",
		"no-extension": "no-extension",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}
