package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/sranjan/examforge/internal/mcq"
)

func sampleQuestions() []mcq.MCQ {
	return []mcq.MCQ{
		{
			ID:            "p1-q1",
			PartName:      "Part 1",
			ChapterTitle:  "Mechanics",
			Question:      `What does "inertia" mean?`,
			Options:       mcq.Options{A: "Resistance to change", B: "Speed", C: "Mass, kg", D: "Force"},
			CorrectAnswer: mcq.AnswerA,
			Topic:         "Dynamics",
			Difficulty:    mcq.DifficultyEasy,
		},
		{
			ID:            "p1-q2",
			PartName:      "Part 1",
			ChapterTitle:  "Mechanics",
			Question:      "What is the SI unit of force?",
			Options:       mcq.Options{A: "Newton", B: "Joule", C: "Watt", D: "Pascal"},
			CorrectAnswer: mcq.AnswerA,
			Topic:         "Dynamics",
			Difficulty:    mcq.DifficultyModerate,
		},
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleQuestions()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-parse exported csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	wantHeader := []string{"Part", "Chapter", "Question", "Option A", "Option B", "Option C", "Option D", "Correct Answer"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header column %d: %q, want %q", i, records[0][i], h)
		}
	}

	// Quotes and commas in fields survive the round trip.
	if records[1][2] != `What does "inertia" mean?` {
		t.Errorf("embedded quotes mangled: %q", records[1][2])
	}
	if records[1][5] != "Mass, kg" {
		t.Errorf("embedded comma mangled: %q", records[1][5])
	}
	if records[2][7] != "A" {
		t.Errorf("correct answer column: %q, want A", records[2][7])
	}
}

func TestWriteCSV_EmbeddedQuoteIsDoubled(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleQuestions()[:1]); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(buf.String(), `"What does ""inertia"" mean?"`) {
		t.Errorf("expected RFC 4180 quoting in raw output:\n%s", buf.String())
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty export should contain only the header, got %d records", len(records))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleQuestions()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out []mcq.MCQ
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("re-parse exported json: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(out))
	}
	if out[0].ID != "p1-q1" || out[0].CorrectAnswer != mcq.AnswerA {
		t.Errorf("unexpected first question: %+v", out[0])
	}
}

func TestFilterPart(t *testing.T) {
	questions := make([]mcq.MCQ, 2*mcq.PartSize+10)
	for i := range questions {
		questions[i] = mcq.MCQ{ID: fmt.Sprintf("q%d", i)}
	}

	first := FilterPart(questions, 0)
	if len(first) != mcq.PartSize {
		t.Errorf("part 0: expected %d questions, got %d", mcq.PartSize, len(first))
	}
	if first[0].ID != "q0" || first[len(first)-1].ID != fmt.Sprintf("q%d", mcq.PartSize-1) {
		t.Errorf("part 0 boundaries wrong: %s..%s", first[0].ID, first[len(first)-1].ID)
	}

	third := FilterPart(questions, 2)
	if len(third) != 10 {
		t.Errorf("partial part: expected 10 questions, got %d", len(third))
	}
	if third[0].ID != fmt.Sprintf("q%d", 2*mcq.PartSize) {
		t.Errorf("partial part starts at %s", third[0].ID)
	}

	if got := FilterPart(questions, 3); len(got) != 0 {
		t.Errorf("empty part should yield nothing, got %d", len(got))
	}
}
