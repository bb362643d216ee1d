// Package pipeline composes resume ingestion, extraction, normalization,
// and persistence into a single analysis flow.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/linklift/linklift/internal/extract"
	"github.com/linklift/linklift/internal/ingest"
	"github.com/linklift/linklift/internal/profile"
)

// ProfileStore persists the analysis result for a resume.
type ProfileStore interface {
	UpdateParsedJSON(ctx context.Context, resumeID uuid.UUID, parsed any) error
}

// Extractor produces raw profile data from resume text.
// *extract.Orchestrator satisfies this.
type Extractor interface {
	Extract(ctx context.Context, resumeText string) (map[string]any, profile.Identity)
}

// Analyzer runs the full resume analysis flow: fetch the uploaded file,
// extract a profile from its text, normalize the result, and store it.
type Analyzer struct {
	store      ProfileStore
	extractor  Extractor
	ingestOpts *ingest.Options
}

// New creates an Analyzer. ingestOpts may be nil to use defaults.
func New(store ProfileStore, extractor Extractor, ingestOpts *ingest.Options) *Analyzer {
	if ingestOpts == nil {
		ingestOpts = ingest.DefaultOptions()
	}
	return &Analyzer{
		store:      store,
		extractor:  extractor,
		ingestOpts: ingestOpts,
	}
}

// Analyze fetches the resume at fileURL, extracts and normalizes a profile,
// and persists it under resumeID. Ingestion and storage failures are
// returned to the caller; extraction itself always yields a profile.
func (a *Analyzer) Analyze(ctx context.Context, fileURL string, resumeID uuid.UUID) (*profile.Profile, error) {
	text, err := ingest.Text(ctx, fileURL, a.ingestOpts)
	if err != nil {
		return nil, fmt.Errorf("ingest resume %s: %w", resumeID, err)
	}
	log.Printf("[PIPELINE] resume %s: ingested %d chars", resumeID, len(text))

	raw, hints := a.extractor.Extract(ctx, text)
	p := profile.Normalize(raw, hints)
	log.Printf("[PIPELINE] resume %s: extracted profile for %q (score %d)", resumeID, p.Name, p.Score)

	if err := a.store.UpdateParsedJSON(ctx, resumeID, p); err != nil {
		return nil, fmt.Errorf("store profile for resume %s: %w", resumeID, err)
	}
	return p, nil
}

var _ Extractor = (*extract.Orchestrator)(nil)
