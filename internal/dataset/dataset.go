// Package dataset loads A/B experiment exports and resolves their variation ids.
package dataset

import (
	"crypto/sha256"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/huangsam/abtrend/schema"
)

// SampleSource names the embedded dataset in results and cache keys.
const SampleSource = "embedded:sample.json"

//go:embed sample.json
var sampleData []byte

// Load reads a dataset from path, or the embedded sample when path is empty.
// Overrides take precedence over the ids declared by the dataset.
func Load(path string, overrides schema.VariantIDs) (*schema.Dataset, error) {
	source := path
	data := sampleData
	if path == "" {
		source = SampleSource
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
		}
	}
	return Parse(source, data, overrides)
}

// Parse decodes raw dataset bytes.
func Parse(source string, data []byte, overrides schema.VariantIDs) (*schema.Dataset, error) {
	var raw schema.RawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", source, err)
	}

	return &schema.Dataset{
		Source:      source,
		Fingerprint: Fingerprint(data),
		IDs:         ResolveVariantIDs(raw, overrides),
		Raw:         raw,
	}, nil
}

// Fingerprint is the hex sha256 of the raw dataset bytes.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// ResolveVariantIDs picks the id used for each variant. The original is
// always "0". A, B and C come from overrides, then the dataset's second to
// fourth variations, then fixed fallbacks.
func ResolveVariantIDs(raw schema.RawDataset, overrides schema.VariantIDs) schema.VariantIDs {
	ids := schema.VariantIDs{schema.Original: schema.OriginalID}
	fallbacks := map[schema.VariantKey]string{
		schema.VariantA: schema.FallbackVariantAID,
		schema.VariantB: schema.FallbackVariantBID,
		schema.VariantC: schema.FallbackVariantCID,
	}

	for i, k := range schema.AllVariants[1:] {
		if id, ok := overrides[k]; ok && id != "" {
			ids[k] = id
			continue
		}
		if pos := i + 1; pos < len(raw.Variations) && raw.Variations[pos].ID != "" {
			ids[k] = string(raw.Variations[pos].ID)
			continue
		}
		ids[k] = fallbacks[k]
	}
	return ids
}
