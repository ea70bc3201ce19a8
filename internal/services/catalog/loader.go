package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/utils"
)

//go:embed data/policy_facts.json
var embeddedFacts []byte

// EmbeddedFacts returns the policy facts compiled into the binary.
func EmbeddedFacts() ([]RawFact, error) {
	return ParseFacts(embeddedFacts)
}

// EmbeddedFactsJSON returns the raw compiled-in facts document.
func EmbeddedFactsJSON() []byte {
	out := make([]byte, len(embeddedFacts))
	copy(out, embeddedFacts)
	return out
}

// ObjectGetter fetches an object by key, e.g. from S3.
type ObjectGetter interface {
	DownloadFile(ctx context.Context, key string) ([]byte, error)
}

// FactStore lists stored policy-fact documents, e.g. from Postgres.
type FactStore interface {
	ListFacts(ctx context.Context) ([]json.RawMessage, error)
}

// Sources are the optional backends a catalog can be loaded from.
type Sources struct {
	S3    ObjectGetter
	Store FactStore
}

// FromFacts transforms facts with the default enrichment and builds a catalog.
func FromFacts(facts []RawFact) (*Catalog, error) {
	policies, err := BuildPolicies(facts, DefaultEnrichment)
	if err != nil {
		return nil, err
	}
	return New(policies)
}

// LoadEmbedded builds the catalog from the compiled-in facts.
func LoadEmbedded() (*Catalog, error) {
	facts, err := EmbeddedFacts()
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded facts: %w", err)
	}
	return FromFacts(facts)
}

// LoadFile builds the catalog from a JSON facts file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}
	facts, err := ParseFacts(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse facts file: %w", err)
	}
	return FromFacts(facts)
}

// LoadS3 builds the catalog from a JSON facts object.
func LoadS3(ctx context.Context, getter ObjectGetter, key string) (*Catalog, error) {
	data, err := getter.DownloadFile(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download facts: %w", err)
	}
	facts, err := ParseFacts(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse facts object: %w", err)
	}
	return FromFacts(facts)
}

// LoadStore builds the catalog from stored fact documents.
func LoadStore(ctx context.Context, store FactStore) (*Catalog, error) {
	docs, err := store.ListFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	facts := make([]RawFact, 0, len(docs))
	for i, doc := range docs {
		var f RawFact
		if err := json.Unmarshal(doc, &f); err != nil {
			return nil, fmt.Errorf("failed to parse stored fact %d: %w", i, err)
		}
		facts = append(facts, f)
	}
	return FromFacts(facts)
}

// Load builds the catalog from the source named in the configuration.
func Load(ctx context.Context, cfg *config.Config, src Sources) (*Catalog, error) {
	var (
		c   *Catalog
		err error
	)

	switch cfg.CatalogSource {
	case config.CatalogSourceEmbedded, "":
		c, err = LoadEmbedded()
	case config.CatalogSourceFile:
		c, err = LoadFile(cfg.CatalogPath)
	case config.CatalogSourceS3:
		if src.S3 == nil {
			return nil, fmt.Errorf("%w: s3", ErrSourceNotAvailable)
		}
		c, err = LoadS3(ctx, src.S3, cfg.CatalogS3Key)
	case config.CatalogSourcePostgres:
		if src.Store == nil {
			return nil, fmt.Errorf("%w: postgres", ErrSourceNotAvailable)
		}
		c, err = LoadStore(ctx, src.Store)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.CatalogSource)
	}
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Catalog loaded",
		zap.String("source", cfg.CatalogSource),
		zap.Int("countries", c.Len()),
	)
	return c, nil
}
