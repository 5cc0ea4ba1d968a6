package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/civicgrid/triage/internal/domain"
)

// ComplaintIndexer mirrors triaged complaints into Elasticsearch so the
// analytics dashboard can search and aggregate them. Indexing is best
// effort; Postgres remains the system of record.
type ComplaintIndexer struct {
	client *es.Client
	index  string
}

// NewComplaintIndexer creates an indexer writing to the given index.
func NewComplaintIndexer(client *es.Client, index string) *ComplaintIndexer {
	return &ComplaintIndexer{
		client: client,
		index:  index,
	}
}

// complaintDoc is the flattened search document for a triaged complaint.
type complaintDoc struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	Category           string    `json:"category"`
	CategoryConfidence float64   `json:"category_confidence"`
	UrgencyLevel       string    `json:"urgency_level"`
	UrgencyScore       float64   `json:"urgency_score"`
	KeywordsDetected   []string  `json:"keywords_detected"`
	LanguageDetected   string    `json:"language_detected"`
	TriageMethod       string    `json:"triage_method"`
	DepartmentID       string    `json:"department_id"`
	OfficerID          string    `json:"officer_id"`
	SLAHours           int       `json:"sla_hours"`
	EscalationNeeded   bool      `json:"escalation_needed"`
	Address            string    `json:"address,omitempty"`
	Location           *geoPoint `json:"location,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	IndexedAt          time.Time `json:"indexed_at"`
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IndexComplaint indexes a single triaged complaint.
func (s *ComplaintIndexer) IndexComplaint(ctx context.Context, c *domain.Complaint) error {
	if c.Triage == nil || c.Routing == nil {
		return fmt.Errorf("complaint %s has no triage or routing decision to index", c.ID)
	}

	doc := complaintDoc{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        c.Description,
		Status:             string(c.Status),
		Category:           string(c.Triage.Category),
		CategoryConfidence: c.Triage.CategoryConfidence,
		UrgencyLevel:       string(c.Triage.UrgencyLevel),
		UrgencyScore:       c.Triage.UrgencyScore,
		KeywordsDetected:   c.Triage.KeywordsDetected,
		LanguageDetected:   c.Triage.LanguageDetected,
		TriageMethod:       string(c.Triage.Method),
		DepartmentID:       c.Routing.DepartmentID,
		OfficerID:          c.Routing.OfficerID,
		SLAHours:           c.Routing.SLAHours,
		EscalationNeeded:   c.Routing.Escalation.Needed,
		Address:            c.Location.Address,
		CreatedAt:          c.CreatedAt,
		IndexedAt:          time.Now().UTC(),
	}
	if c.Location.HasCoordinates() {
		doc.Location = &geoPoint{Lat: *c.Location.Latitude, Lon: *c.Location.Longitude}
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(docBytes),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(c.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}
	return nil
}

// EnsureIndex creates the complaints index with its mapping if it does not
// already exist.
func (s *ComplaintIndexer) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]any{
		"settings": map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 1,
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":                  map[string]any{"type": "keyword"},
				"title":               map[string]any{"type": "text"},
				"description":         map[string]any{"type": "text"},
				"status":              map[string]any{"type": "keyword"},
				"category":            map[string]any{"type": "keyword"},
				"category_confidence": map[string]any{"type": "float"},
				"urgency_level":       map[string]any{"type": "keyword"},
				"urgency_score":       map[string]any{"type": "float"},
				"keywords_detected":   map[string]any{"type": "keyword"},
				"language_detected":   map[string]any{"type": "keyword"},
				"triage_method":       map[string]any{"type": "keyword"},
				"department_id":       map[string]any{"type": "keyword"},
				"officer_id":          map[string]any{"type": "keyword"},
				"sla_hours":           map[string]any{"type": "integer"},
				"escalation_needed":   map[string]any{"type": "boolean"},
				"address":             map[string]any{"type": "text"},
				"location":            map[string]any{"type": "geo_point"},
				"created_at":          map[string]any{"type": "date"},
				"indexed_at":          map[string]any{"type": "date"},
			},
		},
	}

	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createRes, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(mappingBytes)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index: %s", createRes.String())
	}
	return nil
}

// TestConnection verifies the cluster is reachable.
func (s *ComplaintIndexer) TestConnection(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}
	return nil
}
