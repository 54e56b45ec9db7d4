package indexer

import (
	"regexp"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// qaDetectPatterns mark a text as QA-structured: numbered or bare Q/A pairs,
// spelled-out question/answer pairs, "###"-prefixed variants, or procedural
// keywords common in internal handbook documents.
var qaDetectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)Q\d*[:：].*\nA\d*[:：]`),
	regexp.MustCompile(`(?mi)Question\d*[:：].*\nAnswer\d*[:：]`),
	regexp.MustCompile(`(?m)^\s*Q[:：].*\n\s*A[:：]`),
	regexp.MustCompile(`(?m)###\s*Q[:：].*\nA[:：]`),
	regexp.MustCompile(`(?i)\b(procedure|application|workflow|guide|how to|steps)\b`),
}

// sectionSeparator splits a document into independent QA sections.
var sectionSeparator = regexp.MustCompile(`\n---\n`)

// qaPairPattern matches one combined question+answer block inside a section.
var qaPairPattern = regexp.MustCompile(`(?si)(?:###\s*)?(?:Q\d*[:：]|Question\d*[:：])(.*?)\n(?:A\d*[:：]|Answer\d*[:：])(.*?)(?:\n|$)`)

// questionMarker and answerMarker drive the fallback split when the combined
// pattern does not match a section.
var (
	questionMarker = regexp.MustCompile(`(?mi)(?:^|\n)(?:###\s*)?(?:Q\d*[:：]|Question\d*[:：])`)
	answerMarker   = regexp.MustCompile(`(?mi)(?:^|\n)(?:A\d*[:：]|Answer\d*[:：])`)
)

// DetectQA reports whether the text matches any QA marker pattern and should
// be segmented into question/answer pairs instead of plain chunks.
func DetectQA(text string) bool {
	for _, p := range qaDetectPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// SegmentQA splits QA-structured text into ordered segments. Each section
// (separated by "---" lines) is first matched against the combined
// question+answer pattern; on failure the section is split on question
// markers and each piece once more on answer markers. Pieces that yield a
// clean pair become qa_pair segments rendered as "Question: …\nAnswer: …";
// anything else becomes a plain segment with its raw text.
func SegmentQA(text string) []models.Segment {
	var segments []models.Segment
	for _, section := range sectionSeparator.Split(text, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		if m := qaPairPattern.FindStringSubmatch(section); m != nil {
			segments = append(segments, qaSegment(m[1], m[2]))
			continue
		}
		segments = append(segments, splitOnMarkers(section)...)
	}
	return segments
}

// splitOnMarkers is the fallback path: split on question markers, then each
// piece once on an answer marker.
func splitOnMarkers(section string) []models.Segment {
	pieces := questionMarker.Split(section, -1)
	if len(pieces) > 0 && strings.TrimSpace(pieces[0]) == "" {
		pieces = pieces[1:]
	}
	var segments []models.Segment
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		parts := answerMarker.Split(piece, 2)
		if len(parts) == 2 {
			segments = append(segments, qaSegment(parts[0], parts[1]))
			continue
		}
		segments = append(segments, models.Segment{
			Text:        strings.TrimSpace(piece),
			ContentType: models.ContentTypePlain,
		})
	}
	return segments
}

// qaSegment builds a qa_pair segment with the canonical two-line rendering.
func qaSegment(question, answer string) models.Segment {
	q := strings.TrimSpace(question)
	a := strings.TrimSpace(answer)
	return models.Segment{
		Text:        "Question: " + q + "\nAnswer: " + a,
		ContentType: models.ContentTypeQAPair,
		Question:    q,
		Answer:      a,
	}
}
