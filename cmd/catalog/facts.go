package main

import (
	"encoding/json"
	"fmt"
	"os"

	"nomad-visa-engine/internal/services/catalog"
	"nomad-visa-engine/internal/services/database"
)

// readFacts returns the raw dataset from --file or the embedded copy.
func readFacts() ([]byte, error) {
	if factsFile == "" {
		return catalog.EmbeddedFactsJSON(), nil
	}
	data, err := os.ReadFile(factsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}
	return data, nil
}

// loadCatalog parses and transforms the dataset, failing on any bad record.
func loadCatalog() ([]byte, []catalog.RawFact, *catalog.Catalog, error) {
	data, err := readFacts()
	if err != nil {
		return nil, nil, nil, err
	}
	facts, err := catalog.ParseFacts(data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse facts: %w", err)
	}
	cat, err := catalog.FromFacts(facts)
	if err != nil {
		return nil, nil, nil, err
	}
	return data, facts, cat, nil
}

// toPolicyFacts re-encodes each record for storage.
func toPolicyFacts(facts []catalog.RawFact) ([]database.PolicyFact, error) {
	out := make([]database.PolicyFact, 0, len(facts))
	for _, f := range facts {
		doc, err := json.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.Meta.ISOCode, err)
		}
		out = append(out, database.PolicyFact{ISOCode: f.Meta.ISOCode, Facts: doc})
	}
	return out, nil
}
