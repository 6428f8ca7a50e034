package schema

import (
	"testing"
)

func TestValidate(t *testing.T) {
	err := Validate()
	if err != nil {
		t.Fatalf("Schema validation failed: %v", err)
	}
}

func TestSectionOrder(t *testing.T) {
	expected := []SectionKey{
		SectionPersonal, SectionEducation, SectionExperience,
		SectionProjects, SectionSkills, SectionAdditional,
	}

	if len(Sections) != len(expected) {
		t.Fatalf("Expected %d sections, got %d", len(expected), len(Sections))
	}

	for i, key := range expected {
		if Sections[i].Key != key {
			t.Errorf("Section %d: expected %s, got %s", i, key, Sections[i].Key)
		}
	}
}

func TestNext(t *testing.T) {
	next, found := Next(SectionPersonal)
	if !found {
		t.Fatal("Expected a section after personal")
	}
	if next != SectionEducation {
		t.Errorf("Expected education after personal, got %s", next)
	}

	_, found = Next(SectionAdditional)
	if found {
		t.Error("Expected no section after additional")
	}

	_, found = Next(SectionKey("bogus"))
	if found {
		t.Error("Expected no section after unknown key")
	}
}

func TestRepeatableFlags(t *testing.T) {
	repeatable := map[SectionKey]bool{
		SectionEducation:  true,
		SectionExperience: true,
		SectionProjects:   true,
	}

	for _, s := range Sections {
		if s.Repeatable != repeatable[s.Key] {
			t.Errorf("Section %s: repeatable = %v, want %v", s.Key, s.Repeatable, repeatable[s.Key])
		}
	}
}

func TestEditTarget(t *testing.T) {
	tests := []struct {
		sectionID   string
		wantSection SectionKey
		wantIdx     int
		wantError   bool
	}{
		{sectionID: "education", wantSection: SectionEducation, wantIdx: 0},
		{sectionID: "experience", wantSection: SectionExperience, wantIdx: 0},
		{sectionID: "skills", wantSection: SectionSkills, wantIdx: 0},
		{sectionID: "achievements", wantSection: SectionAdditional, wantIdx: 0},
		{sectionID: "languages", wantSection: SectionAdditional, wantIdx: 1},
		{sectionID: "interests", wantSection: SectionAdditional, wantIdx: 2},
		{sectionID: "nonsense", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.sectionID, func(t *testing.T) {
			key, idx, err := EditTarget(tt.sectionID)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if key != tt.wantSection || idx != tt.wantIdx {
				t.Errorf("Got (%s, %d), want (%s, %d)", key, idx, tt.wantSection, tt.wantIdx)
			}
		})
	}
}

func TestTimeBucketLabel(t *testing.T) {
	if got := TimeBucketLabel("30"); got != "15-30 minutes" {
		t.Errorf("Expected label for code 30, got %s", got)
	}

	// Unknown codes pass through.
	if got := TimeBucketLabel("whatever"); got != "whatever" {
		t.Errorf("Expected passthrough for unknown code, got %s", got)
	}
}
