package voice

import (
	"strings"
	"testing"
)

func TestExtractNameEnglish(t *testing.T) {
	name, confidence := extractName("Patient name is John Doe age 35")
	if name != "John Doe" {
		t.Errorf("name = %q, want John Doe", name)
	}
	if confidence < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", confidence)
	}
}

func TestExtractNameRomanUrdu(t *testing.T) {
	name, confidence := extractName("naam Ahmed Khan age 40")
	if name != "Ahmed Khan" {
		t.Errorf("name = %q, want Ahmed Khan", name)
	}
	if confidence < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", confidence)
	}
}

func TestExtractNameCapitalizedFallback(t *testing.T) {
	name, confidence := extractName("John Smith 35")
	if name != "John Smith" {
		t.Errorf("name = %q, want John Smith", name)
	}
	if confidence != 0.70 {
		t.Errorf("confidence = %v, want 0.70 for fallback", confidence)
	}
}

func TestExtractNameNotFound(t *testing.T) {
	name, confidence := extractName("Maybe some patient")
	if name != "" || confidence != 0.0 {
		t.Errorf("got (%q, %v), want no extraction", name, confidence)
	}
}

func TestExtractAgeKeyword(t *testing.T) {
	age, confidence := extractAge("Patient age is 45 years")
	if age != 45 {
		t.Errorf("age = %d, want 45", age)
	}
	if confidence < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", confidence)
	}
}

func TestExtractAgeYearsOld(t *testing.T) {
	age, confidence := extractAge("Patient is 28 years old")
	if age != 28 {
		t.Errorf("age = %d, want 28", age)
	}
	if confidence < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", confidence)
	}
}

func TestExtractAgeStandaloneNumber(t *testing.T) {
	age, confidence := extractAge("John Smith 35")
	if age != 35 {
		t.Errorf("age = %d, want 35", age)
	}
	if confidence != 0.60 {
		t.Errorf("confidence = %v, want 0.60 for bare number", confidence)
	}
}

func TestExtractAgeInvalid(t *testing.T) {
	if age, _ := extractAge("Patient name is Bob age something"); age != 0 {
		t.Errorf("age = %d, want no extraction", age)
	}
}

func TestExtractGender(t *testing.T) {
	cases := []struct {
		transcript string
		want       string
	}{
		{"Patient gender male age 30", "Male"},
		{"Patient is a woman aged 35", "Female"},
		{"naam Fatima Khan umr 32 aurat", "Female"},
		{"Ahmed Hassan 40 years mard", "Male"},
	}
	for _, tc := range cases {
		gender, confidence := extractGender(tc.transcript)
		if gender != tc.want {
			t.Errorf("extractGender(%q) = %q, want %q", tc.transcript, gender, tc.want)
		}
		if confidence < 0.85 {
			t.Errorf("extractGender(%q) confidence = %v, want >= 0.85", tc.transcript, confidence)
		}
	}
}

func TestExtractContact(t *testing.T) {
	contact, confidence := extractContact("Contact number is 555-1234")
	if !strings.Contains(contact, "555") || !strings.Contains(contact, "1234") {
		t.Errorf("contact = %q, want digits 555 and 1234", contact)
	}
	if confidence < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", confidence)
	}
}

func TestExtractTests(t *testing.T) {
	tests, confidence := extractTests("Patient needs CBC and glucose tests")
	if !strings.Contains(tests, "cbc") {
		t.Errorf("tests = %q, want cbc", tests)
	}
	if confidence < 0.7 {
		t.Errorf("confidence = %v, want >= 0.7", confidence)
	}
}

func TestMapCompleteTranscript(t *testing.T) {
	ex := MapTranscript("Patient name is Sarah Johnson age 42 female contact 555-9876 test CBC")

	for _, field := range []string{"name", "age", "gender", "contact"} {
		if _, ok := ex.Fields[field]; !ok {
			t.Errorf("missing field %q in %v", field, ex.Fields)
		}
	}
	if ex.OverallConfidence < 0.85 {
		t.Errorf("overall confidence = %v, want >= 0.85", ex.OverallConfidence)
	}
}

func TestMapMixedLanguage(t *testing.T) {
	ex := MapTranscript("naam Ali Hassan umr 50 male phone 555-4321")

	if ex.Fields["name"] != "Ali Hassan" {
		t.Errorf("name = %v, want Ali Hassan", ex.Fields["name"])
	}
	if ex.Fields["age"] != 50 {
		t.Errorf("age = %v, want 50", ex.Fields["age"])
	}
	if _, ok := ex.Fields["gender"]; !ok {
		t.Error("expected gender extracted")
	}
}

func TestMapConfidenceBands(t *testing.T) {
	high := MapTranscript("Patient name is John Smith age 35 male")
	if high.OverallConfidence < 0.9 {
		t.Errorf("high-confidence transcript scored %v, want >= 0.9", high.OverallConfidence)
	}

	medium := MapTranscript("John Smith 35")
	if medium.OverallConfidence < 0.6 || medium.OverallConfidence >= 0.9 {
		t.Errorf("medium-confidence transcript scored %v, want [0.6, 0.9)", medium.OverallConfidence)
	}

	low := MapTranscript("Maybe some patient")
	if low.OverallConfidence >= 0.6 {
		t.Errorf("low-confidence transcript scored %v, want < 0.6", low.OverallConfidence)
	}
}

func TestMapSamplePhrases(t *testing.T) {
	phrases := []string{
		"Patient name is Maria Garcia age 29 female phone 555-1111",
		"naam Muhammad Ali umr 45 mard contact 555-2222",
		"John Doe 35 years old male test CBC",
		"Patient Sarah aged 28 woman phone 555-3333 glucose test",
		"naam Fatima Khan umr 32 aurat",
		"Patient name David Lee age 50 male contact 555-4444 test lipid profile",
		"Ahmed Hassan 40 years mard phone 555-5555",
		"Patient is Jane Smith age 38 female CBC and liver function",
		"naam Ayesha Malik umr 25 lady contact 555-6666",
		"Patient Robert Brown aged 55 man test kidney function",
	}

	for _, phrase := range phrases {
		ex := MapTranscript(phrase)
		_, hasName := ex.Fields["name"]
		_, hasAge := ex.Fields["age"]
		if !hasName && !hasAge {
			t.Errorf("MapTranscript(%q) extracted neither name nor age: %v", phrase, ex.Fields)
		}
		if ex.OverallConfidence <= 0.0 {
			t.Errorf("MapTranscript(%q) overall confidence = %v, want > 0", phrase, ex.OverallConfidence)
		}
	}
}
