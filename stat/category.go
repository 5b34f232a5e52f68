package stat

import "fmt"

// Category is a grammatical category tracked by the counter.
type Category int

const (
	Other Category = iota
	Noun
	Verb
	Adj
	Adv

	numCategories
)

// Categories are the tracked categories, in column order.
var Categories = []Category{Noun, Verb, Adj, Adv}

func (c Category) String() string {
	switch c {
	case Noun:
		return "NOUN"
	case Verb:
		return "VERB"
	case Adj:
		return "ADJ"
	case Adv:
		return "ADV"
	}
	return "OTHER"
}

// Universal POS labels that are known but not tracked. SPACE is spacy
// specific.
var untracked = map[string]struct{}{
	"ADP":   {},
	"AUX":   {},
	"CCONJ": {},
	"CONJ":  {},
	"DET":   {},
	"INTJ":  {},
	"NUM":   {},
	"PART":  {},
	"PRON":  {},
	"PROPN": {},
	"PUNCT": {},
	"SCONJ": {},
	"SYM":   {},
	"X":     {},
	"SPACE": {},
}

// Classify maps a Universal POS label to a Category. Unknown labels return
// an AnnotationMismatch.
func Classify(pos string) (Category, error) {
	switch pos {
	case "NOUN":
		return Noun, nil
	case "VERB":
		return Verb, nil
	case "ADJ":
		return Adj, nil
	case "ADV":
		return Adv, nil
	}

	if _, ok := untracked[pos]; ok {
		return Other, nil
	}

	return Other, &AnnotationMismatch{Kind: "token", Label: pos}
}

// EntityType is a named entity type tracked by the counter.
type EntityType int

const (
	Person EntityType = iota
	Org
	Loc

	numEntityTypes
)

// EntityTypes are the tracked entity types.
var EntityTypes = []EntityType{Person, Org, Loc}

func (e EntityType) String() string {
	switch e {
	case Person:
		return "PERSON"
	case Org:
		return "ORG"
	case Loc:
		return "LOC"
	}
	return "UNKNOWN"
}

// ClassifyEntity maps an entity label to an EntityType. PER is accepted for
// the multilingual models.
func ClassifyEntity(label string) (EntityType, bool) {
	switch label {
	case "PERSON", "PER":
		return Person, true
	case "ORG":
		return Org, true
	case "LOC":
		return Loc, true
	}
	return 0, false
}

// AnnotationMismatch reports a token or entity carrying an unexpected label.
type AnnotationMismatch struct {
	// token or entity
	Kind  string
	Index int
	Label string
	Text  string
}

func (e *AnnotationMismatch) Error() string {
	return fmt.Sprintf("unexpected %s annotation at %d: label %q text %q", e.Kind, e.Index, e.Label, e.Text)
}
