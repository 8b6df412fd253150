package language

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyzeSentimentSendsDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/documents:analyzeSentiment" || r.URL.Query().Get("key") != "k" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		var body analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Document.Type != "PLAIN_TEXT" || body.Document.Content != "Apple beats" || body.EncodingType != "UTF8" {
			t.Errorf("unexpected body %+v", body)
		}
		_, _ = w.Write([]byte(`{"documentSentiment":{"score":0.6,"magnitude":1.2},"language":"en"}`))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "k", BaseURL: srv.URL}, nil).AnalyzeSentiment(context.Background(), "Apple beats")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if s.Score != 0.6 || s.Magnitude != 1.2 {
		t.Fatalf("unexpected sentiment %+v", s)
	}
}

func TestAnalyzeSentimentMissingDocumentSentimentDefaultsToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sentences":[]}`))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "k", BaseURL: srv.URL}, nil).AnalyzeSentiment(context.Background(), "x")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if s.Score != 0 || s.Magnitude != 0 {
		t.Fatalf("expected zero sentiment, got %+v", s)
	}
}

func TestAnalyzeEntitiesCapsAtTen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ents := make([]string, 0, 15)
		for i := 0; i < 15; i++ {
			ents = append(ents, fmt.Sprintf(`{"name":"E%d","type":"ORGANIZATION","salience":0.%d,"mentions":[]}`, i, i%10))
		}
		_, _ = w.Write([]byte(`{"entities":[` + strings.Join(ents, ",") + `]}`))
	}))
	defer srv.Close()

	ents, err := New(Config{APIKey: "k", BaseURL: srv.URL}, nil).AnalyzeEntities(context.Background(), "x")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(ents) != 10 {
		t.Fatalf("expected 10 entities, got %d", len(ents))
	}
	if ents[0].Name != "E0" || ents[9].Name != "E9" || ents[0].Type != "ORGANIZATION" {
		t.Fatalf("expected the first ten in order, got %+v", ents)
	}
}

func TestAnalyzeEntitiesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ents, err := New(Config{APIKey: "k", BaseURL: srv.URL}, nil).AnalyzeEntities(context.Background(), "x")
	if err != nil || ents == nil || len(ents) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v %v", ents, err)
	}
}
