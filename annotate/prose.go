package annotate

import (
	"context"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
	"github.com/revelaction/corpstat/doc"
)

// Prose annotates text in process with the prose perceptron tagger and
// entity extracter. It needs no external service but is less accurate than
// a spacy pipeline.
type Prose struct{}

var _ Annotator = (*Prose)(nil)

func NewProse() *Prose {
	return &Prose{}
}

func (p *Prose) Annotate(ctx context.Context, text string) (doc.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc.Document{}, err
	}

	pd, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return doc.Document{}, err
	}

	var d doc.Document

	offset := 0
	for _, tok := range pd.Tokens() {
		pos := UniversalPos(tok.Tag, tok.Text)

		idx := strings.Index(text[offset:], tok.Text)
		if idx >= 0 {
			idx += offset
			offset = idx + len(tok.Text)
		}

		d.Tokens = append(d.Tokens, doc.Token{
			Text:    tok.Text,
			Pos:     pos,
			Tag:     tok.Tag,
			Idx:     idx,
			IsPunct: pos == "PUNCT",
		})
	}

	for _, ent := range pd.Entities() {
		label := ent.Label
		// prose has no LOC class; GPE is its only location label
		if label == "GPE" {
			label = "LOC"
		}
		d.Entities = append(d.Entities, doc.Entity{Text: ent.Text, Label: label})
	}

	return d, nil
}

var pennToUniversal = map[string]string{
	"NN":    "NOUN",
	"NNS":   "NOUN",
	"NNP":   "PROPN",
	"NNPS":  "PROPN",
	"VB":    "VERB",
	"VBD":   "VERB",
	"VBG":   "VERB",
	"VBN":   "VERB",
	"VBP":   "VERB",
	"VBZ":   "VERB",
	"MD":    "AUX",
	"JJ":    "ADJ",
	"JJR":   "ADJ",
	"JJS":   "ADJ",
	"RB":    "ADV",
	"RBR":   "ADV",
	"RBS":   "ADV",
	"WRB":   "ADV",
	"RP":    "PART",
	"TO":    "PART",
	"POS":   "PART",
	"DT":    "DET",
	"PDT":   "DET",
	"WDT":   "DET",
	"PRP":   "PRON",
	"PRP$":  "PRON",
	"WP":    "PRON",
	"WP$":   "PRON",
	"EX":    "PRON",
	"IN":    "ADP",
	"CC":    "CCONJ",
	"CD":    "NUM",
	"UH":    "INTJ",
	"FW":    "X",
	"LS":    "X",
	"SYM":   "SYM",
	"$":     "SYM",
	"#":     "SYM",
	".":     "PUNCT",
	",":     "PUNCT",
	":":     "PUNCT",
	"(":     "PUNCT",
	")":     "PUNCT",
	"``":    "PUNCT",
	"''":    "PUNCT",
	"-LRB-": "PUNCT",
	"-RRB-": "PUNCT",
	"HYPH":  "PUNCT",
	"NFP":   "PUNCT",
}

// UniversalPos maps a Penn Treebank tag to a Universal POS label. Unknown
// tags fall back to PUNCT for punctuation-only text, X otherwise.
func UniversalPos(tag, text string) string {
	if u, ok := pennToUniversal[tag]; ok {
		return u
	}

	if isPunct(text) {
		return "PUNCT"
	}

	return "X"
}

func isPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
