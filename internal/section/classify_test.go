package section

import "testing"

func TestClassify_NumberedHeadings(t *testing.T) {
	tests := []struct {
		line  string
		depth int
		title string
	}{
		{"1 Introduction", 1, "1 Introduction"},
		{"2 Background", 1, "2 Background"},
		{"1.1 Motivation", 2, "1.1 Motivation"},
		{"1.2.3 Details", 3, "1.2.3 Details"},
		{"1.1.1.1 Deep Dive", 4, "1.1.1.1 Deep Dive"},
		{"  3 Indented Heading", 1, "3 Indented Heading"},
		{"10.2 Double Digits", 2, "10.2 Double Digits"},
	}
	for _, tt := range tests {
		dec, _ := Classify(tt.line, ClassifyState{})
		if !dec.Heading {
			t.Errorf("%q: expected heading, got NotHeading", tt.line)
			continue
		}
		if dec.Depth != tt.depth {
			t.Errorf("%q: expected depth %d, got %d", tt.line, tt.depth, dec.Depth)
		}
		if dec.Title != tt.title {
			t.Errorf("%q: expected title %q, got %q", tt.line, tt.title, dec.Title)
		}
	}
}

func TestClassify_DecimalTopLevelMarker(t *testing.T) {
	// "N.0" is chapter numbering in decimal notation, not a subsection.
	dec, _ := Classify("2.0 Another Top-Level Section", ClassifyState{})
	if !dec.Heading {
		t.Fatal("expected heading")
	}
	if dec.Depth != 1 {
		t.Errorf("expected depth 1, got %d", dec.Depth)
	}

	bare, _ := Classify("2 Another Top-Level Section", ClassifyState{})
	if bare.Depth != dec.Depth {
		t.Errorf("bare '2' depth %d != '2.0' depth %d", bare.Depth, dec.Depth)
	}

	// The exception covers only a literal trailing zero.
	sub, _ := Classify("1.10 Tenth Subsection", ClassifyState{})
	if sub.Depth != 2 {
		t.Errorf("expected '1.10' at depth 2, got %d", sub.Depth)
	}
}

func TestClassify_HashOverride(t *testing.T) {
	dec, _ := Classify("### 1.1 Forced Depth", ClassifyState{})
	if !dec.Heading {
		t.Fatal("expected heading")
	}
	if dec.Depth != 3 {
		t.Errorf("expected hash count to win, got depth %d", dec.Depth)
	}
}

func TestClassify_NumericFalsePositives(t *testing.T) {
	notHeadings := []string{
		`We should ensure numbers like "version 2.0" or "GPT 3.5" are not misinterpreted as headings.`,
		"The budget grew to 3.5 million.",
		"2.0",     // bare number, no heading text
		"1.5 2.0 3.5", // numbers followed by more numbers
		"",
		"Plain prose without any numbering.",
		"Culture 2.0 is a mid-line phrase",
	}
	for _, line := range notHeadings {
		if dec, _ := Classify(line, ClassifyState{}); dec.Heading {
			t.Errorf("%q: expected NotHeading, got heading %q at depth %d", line, dec.Title, dec.Depth)
		}
	}
}

func TestClassify_CitationsNeverHeadings(t *testing.T) {
	for _, st := range []ClassifyState{{}, {InReferences: true}} {
		dec, _ := Classify("[1] This is the first reference.", st)
		if dec.Heading {
			t.Errorf("InReferences=%v: citation classified as heading", st.InReferences)
		}
	}
}

func TestClassify_ReferencesRegion(t *testing.T) {
	dec, st := Classify("REFERENCES", ClassifyState{})
	if !dec.Heading || dec.Depth != 1 {
		t.Fatalf("expected REFERENCES as depth-1 heading, got %+v", dec)
	}
	if !st.InReferences {
		t.Fatal("expected state to enter references region")
	}

	// Numbered lines inside the region are body, and the region never ends.
	for _, line := range []string{
		"[2] Second reference with 3.5 in it.",
		"1.1 Looks like a heading but is a reference.",
		"12 Authors et al. 2020.",
	} {
		var d Decision
		d, st = Classify(line, st)
		if d.Heading {
			t.Errorf("%q: heading inside references region", line)
		}
		if !st.InReferences {
			t.Errorf("%q: references region ended early", line)
		}
	}
}

func TestClassify_MarkerAllowList(t *testing.T) {
	// APPENDIX is a heading but does not start the references region.
	dec, st := Classify("APPENDIX", ClassifyState{})
	if !dec.Heading || dec.Depth != 1 {
		t.Fatalf("expected APPENDIX as depth-1 heading, got %+v", dec)
	}
	if st.InReferences {
		t.Error("APPENDIX should not open the references region")
	}

	// Ordinary emphasized prose is not on the allow-list.
	if dec, _ := Classify("IMPORTANT NOTICE", ClassifyState{}); dec.Heading {
		t.Error("all-caps prose misclassified as heading")
	}
}

func TestClassify_TrailingPeriodTitle(t *testing.T) {
	dec, _ := Classify("1.1.1 Detailed Point One.", ClassifyState{})
	if !dec.Heading {
		t.Fatal("expected heading")
	}
	if dec.Depth != 3 {
		t.Errorf("expected depth 3, got %d", dec.Depth)
	}
	if dec.Title != "1.1.1 Detailed Point One" {
		t.Errorf("expected trailing period stripped, got %q", dec.Title)
	}
	if dec.Rest != "" {
		t.Errorf("expected no trailing prose, got %q", dec.Rest)
	}
}

func TestClassify_InlineParagraphSplit(t *testing.T) {
	dec, _ := Classify("1.2 Overview. The system processes documents in two stages.", ClassifyState{})
	if !dec.Heading {
		t.Fatal("expected heading")
	}
	if dec.Title != "1.2 Overview" {
		t.Errorf("expected title %q, got %q", "1.2 Overview", dec.Title)
	}
	if dec.Rest != "The system processes documents in two stages." {
		t.Errorf("unexpected rest %q", dec.Rest)
	}

	// A period followed by a digit stays in the title.
	dec, _ = Classify("1.3 Ethics 2.0", ClassifyState{})
	if dec.Title != "1.3 Ethics 2.0" {
		t.Errorf("version number split out of title: %q", dec.Title)
	}
	if dec.Rest != "" {
		t.Errorf("unexpected rest %q", dec.Rest)
	}
}
