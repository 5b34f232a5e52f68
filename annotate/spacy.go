package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/revelaction/corpstat/doc"
)

const DefaultModel = "en_core_web_md"

// Spacy calls a spacy HTTP service that parses text with a loaded pipeline.
type Spacy struct {
	URL   string
	Model string

	HTTPClient *http.Client
}

var _ Annotator = (*Spacy)(nil)

func NewSpacy(url, model string, timeout time.Duration) *Spacy {
	if model == "" {
		model = DefaultModel
	}

	return &Spacy{
		URL:        url,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type spacyRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type spacyResponse struct {
	Tokens []doc.Token  `json:"tokens"`
	Ents   []doc.Entity `json:"ents"`
	Error  string       `json:"error"`
}

func (s *Spacy) Annotate(ctx context.Context, text string) (doc.Document, error) {
	body, err := json.Marshal(spacyRequest{Text: text, Model: s.Model})
	if err != nil {
		return doc.Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return doc.Document{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return doc.Document{}, fmt.Errorf("spacy: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return doc.Document{}, fmt.Errorf("spacy: read body: %w", err)
	}

	var payload spacyResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		if resp.StatusCode >= 300 {
			return doc.Document{}, fmt.Errorf("spacy: status %d", resp.StatusCode)
		}
		return doc.Document{}, fmt.Errorf("spacy: JSON decoding error: %w", err)
	}

	if payload.Error != "" {
		return doc.Document{}, fmt.Errorf("spacy: %s", payload.Error)
	}

	if resp.StatusCode >= 300 {
		return doc.Document{}, fmt.Errorf("spacy: status %d", resp.StatusCode)
	}

	return doc.Document{Tokens: payload.Tokens, Entities: payload.Ents}, nil
}
