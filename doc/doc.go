package doc

// Document is the annotated form of one text file, as produced by an
// annotation backend (spacy, prose).
type Document struct {
	Tokens   []Token  `json:"tokens"`
	Entities []Entity `json:"ents"`
}

// Token represents a word of the document, with POS and metadata.
type Token struct {
	// The unmodified word
	Text string `json:"text"`

	// Universal POS label (NOUN, VERB, PUNCT...)
	Pos string `json:"pos"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// the index of the start character of the token in the original text
	Idx int `json:"idx"`

	IsPunct bool `json:"is_punct"`
}

// Entity is a named entity span.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start_char"`
	End   int    `json:"end_char"`
}

// Len returns the number of tokens of the document.
func (d Document) Len() int {
	return len(d.Tokens)
}
