package analysis

import (
	"strings"
	"testing"
)

func validAnalysis() *TextbookAnalysis {
	return &TextbookAnalysis{
		Chapters: []Chapter{
			{Title: "Mechanics", Topics: []string{"Kinematics", "Dynamics"}},
			{Title: "Waves", Topics: []string{"Sound", "Light"}},
			{Title: "Thermodynamics", Topics: []string{"Heat", "Entropy"}},
			{Title: "Electricity", Topics: []string{"Circuits"}},
		},
		Parts: []Part{
			{Name: "Part 1", ChapterTitles: []string{"Mechanics"}},
			{Name: "Part 2", ChapterTitles: []string{"Waves"}},
			{Name: "Part 3", ChapterTitles: []string{"Thermodynamics"}},
			{Name: "Part 4", ChapterTitles: []string{"Electricity"}},
		},
		TotalTopics: 7,
		Summary:     "An introductory physics textbook.",
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validAnalysis()); err != nil {
		t.Fatalf("expected valid analysis, got %v", err)
	}
}

func TestValidate_OverlappingPartsAllowed(t *testing.T) {
	a := validAnalysis()
	a.Parts[1].ChapterTitles = append(a.Parts[1].ChapterTitles, "Mechanics")
	if err := Validate(a); err != nil {
		t.Fatalf("overlap between parts should be tolerated, got %v", err)
	}
}

func TestValidate_WrongPartCount(t *testing.T) {
	a := validAnalysis()
	a.Parts = a.Parts[:3]
	err := Validate(a)
	if err == nil {
		t.Fatal("expected error for 3 parts")
	}
	if !strings.Contains(err.Error(), "exactly 4 parts") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_NoChapters(t *testing.T) {
	a := validAnalysis()
	a.Chapters = nil
	if err := Validate(a); err == nil {
		t.Fatal("expected error for empty chapter list")
	}
}

func TestValidate_DuplicateChapterTitle(t *testing.T) {
	a := validAnalysis()
	a.Chapters[1].Title = "Mechanics"
	if err := Validate(a); err == nil {
		t.Fatal("expected error for duplicate chapter title")
	}
}

func TestValidate_UnknownChapterReference(t *testing.T) {
	a := validAnalysis()
	a.Parts[0].ChapterTitles = []string{"Quantum"}
	err := Validate(a)
	if err == nil {
		t.Fatal("expected error for unknown chapter reference")
	}
	if !strings.Contains(err.Error(), "Quantum") {
		t.Errorf("error should name the missing chapter: %v", err)
	}
}

func TestValidate_EmptyPart(t *testing.T) {
	a := validAnalysis()
	a.Parts[2].ChapterTitles = nil
	if err := Validate(a); err == nil {
		t.Fatal("expected error for part with no chapters")
	}
}

func TestValidate_UncoveredChapter(t *testing.T) {
	a := validAnalysis()
	a.Chapters = append(a.Chapters, Chapter{Title: "Optics", Topics: []string{"Lenses"}})
	err := Validate(a)
	if err == nil {
		t.Fatal("expected error for chapter assigned to no part")
	}
	if !strings.Contains(err.Error(), "Optics") {
		t.Errorf("error should name the uncovered chapter: %v", err)
	}
}

func TestPartChapters(t *testing.T) {
	a := validAnalysis()
	chapters, err := a.PartChapters(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chapters) != 1 || chapters[0].Title != "Waves" {
		t.Errorf("unexpected chapters for part 2: %+v", chapters)
	}

	if _, err := a.PartChapters(4); err == nil {
		t.Fatal("expected error for out-of-range part index")
	}
}
