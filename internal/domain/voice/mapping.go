package voice

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Extraction is the outcome of mapping one transcript: the field values that
// could be recognized and a per-field confidence score.
type Extraction struct {
	Fields            map[string]interface{} `json:"fields"`
	Confidences       map[string]float64     `json:"confidences"`
	OverallConfidence float64                `json:"overall_confidence"`
}

// Keyword tables cover English plus the Urdu/romanized terms heard in intake
// dictation.
var (
	nameKeywords = []string{"name", "naam", "patient name", "مریض کا نام"}

	femaleKeywords = []string{"female", "aurat", "عورت", "girl", "woman", "lady"}
	maleKeywords   = []string{"male", "mard", "مرد", "boy", "man"}
	otherKeywords  = []string{"other", "doosra", "دوسرا"}

	testKeywords = []string{"test", "tests", "ٹیسٹ", "investigation"}

	commonTests = []string{
		"cbc", "complete blood count", "glucose", "hba1c", "lipid profile",
		"liver function", "kidney function", "urine", "stool",
		"x-ray", "ultrasound", "ecg",
	}
)

var (
	agePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:age|umr|عمر)\s+(?:is\s+)?(\d{1,3})`),
		regexp.MustCompile(`(?i)(\d{1,3})\s+(?:years?\s+old|سال)`),
		regexp.MustCompile(`(?i)(?:aged\s+)?(\d{1,3})\s+(?:year|yr)`),
	}
	standaloneNumber = regexp.MustCompile(`\b(\d{1,3})\b`)

	contactPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:phone|contact|number|نمبر|فون)\s*(?:is\s*)?([0-9\-\+\(\)\s]{7,15})`),
		regexp.MustCompile(`([0-9]{3}[-.\s]?[0-9]{3}[-.\s]?[0-9]{4})`),
		regexp.MustCompile(`(\+?[0-9]{10,15})`),
	}
	phoneJunk = regexp.MustCompile(`[^\d\+\-]`)
)

// namePatterns and testPatterns are keyword-parameterized, so they are built
// once here rather than per call.
var namePatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(nameKeywords))
	for i, kw := range nameKeywords {
		patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw) +
			`\s+(?:is\s+)?([A-Za-z\s]+?)(?:\s+(?:age|umr|عمر|phone|contact|test|$))`)
	}
	return patterns
}()

var testPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(testKeywords))
	for i, kw := range testKeywords {
		patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw) +
			`\s+(?:for\s+)?([A-Za-z\s,]+?)(?:\s+(?:age|phone|$))`)
	}
	return patterns
}()

func extractName(transcript string) (string, float64) {
	lower := strings.ToLower(transcript)
	for i, kw := range nameKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		if m := namePatterns[i].FindStringSubmatch(transcript); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) > 1 {
				return name, 0.95
			}
		}
	}

	// Fall back to leading capitalized words, which usually open a dictated
	// registration ("Jane Doe age 42 ...").
	words := strings.Fields(transcript)
	if len(words) >= 2 {
		var potential []string
		for i, word := range words {
			if i >= 4 {
				break
			}
			if !isCapitalizedWord(word) {
				break
			}
			potential = append(potential, word)
		}
		if len(potential) >= 2 {
			return strings.Join(potential, " "), 0.70
		}
	}

	return "", 0.0
}

func isCapitalizedWord(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func extractAge(transcript string) (int, float64) {
	for _, p := range agePatterns {
		if m := p.FindStringSubmatch(transcript); m != nil {
			age, err := strconv.Atoi(m[1])
			if err == nil && age >= 0 && age <= 150 {
				return age, 0.95
			}
		}
	}

	// A bare number in plausible range is a weak age candidate.
	for _, m := range standaloneNumber.FindAllStringSubmatch(transcript, -1) {
		age, err := strconv.Atoi(m[1])
		if err == nil && age >= 1 && age <= 120 {
			return age, 0.60
		}
	}

	return 0, 0.0
}

// extractGender checks female keywords before male ones so that "woman" is
// not matched by its "man" suffix.
func extractGender(transcript string) (string, float64) {
	lower := strings.ToLower(transcript)

	groups := []struct {
		label    string
		keywords []string
	}{
		{"Female", femaleKeywords},
		{"Male", maleKeywords},
		{"Other", otherKeywords},
	}
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				confidence := 0.85
				if len(kw) > 3 {
					confidence = 0.95
				}
				return g.label, confidence
			}
		}
	}

	return "", 0.0
}

func extractContact(transcript string) (string, float64) {
	for _, p := range contactPatterns {
		if m := p.FindStringSubmatch(transcript); m != nil {
			phone := phoneJunk.ReplaceAllString(strings.TrimSpace(m[1]), "")
			if len(phone) >= 7 {
				return phone, 0.90
			}
		}
	}
	return "", 0.0
}

func extractTests(transcript string) (string, float64) {
	lower := strings.ToLower(transcript)

	var found []string
	for _, test := range commonTests {
		if strings.Contains(lower, test) {
			found = append(found, test)
		}
	}
	if len(found) > 0 {
		return strings.Join(found, ", "), 0.85
	}

	for i, kw := range testKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		if m := testPatterns[i].FindStringSubmatch(transcript); m != nil {
			return strings.TrimSpace(m[1]), 0.70
		}
	}

	return "", 0.0
}

// MapTranscript extracts patient registration fields from a dictated
// transcript. Only recognized fields appear in the result; the overall
// confidence is the mean of the per-field confidences, or zero when nothing
// was recognized.
func MapTranscript(transcript string) Extraction {
	ex := Extraction{
		Fields:      make(map[string]interface{}),
		Confidences: make(map[string]float64),
	}

	if name, conf := extractName(transcript); name != "" {
		ex.Fields["name"] = name
		ex.Confidences["name"] = conf
	}
	if age, conf := extractAge(transcript); age > 0 {
		ex.Fields["age"] = age
		ex.Confidences["age"] = conf
	}
	if gender, conf := extractGender(transcript); gender != "" {
		ex.Fields["gender"] = gender
		ex.Confidences["gender"] = conf
	}
	if contact, conf := extractContact(transcript); contact != "" {
		ex.Fields["contact"] = contact
		ex.Confidences["contact"] = conf
	}
	if tests, conf := extractTests(transcript); tests != "" {
		ex.Fields["tests"] = tests
		ex.Confidences["tests"] = conf
	}

	if len(ex.Confidences) > 0 {
		var sum float64
		for _, c := range ex.Confidences {
			sum += c
		}
		ex.OverallConfidence = sum / float64(len(ex.Confidences))
	}

	return ex
}
