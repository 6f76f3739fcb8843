package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// VariationID is a variation identifier that may arrive as a JSON number or string.
type VariationID string

// UnmarshalJSON accepts both 10001 and "10001".
func (v *VariationID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = VariationID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("variation id must be a number or string: %w", err)
	}
	*v = VariationID(n.String())
	return nil
}

// RawVariation names one arm of the experiment in the source data.
type RawVariation struct {
	ID   VariationID `json:"id"`
	Name string      `json:"name"`
}

// RawDay is one day of visit and conversion counts keyed by variation id.
// A nil count means the source had no value for that variation.
type RawDay struct {
	Date        string            `json:"date"`
	Visits      map[string]*int64 `json:"visits"`
	Conversions map[string]*int64 `json:"conversions"`
}

// RawDataset is the on-disk shape of an experiment export.
type RawDataset struct {
	Variations []RawVariation `json:"variations"`
	Data       []RawDay       `json:"data"`
}

// VariantIDs maps each variant key to the identifier used in RawDay maps.
type VariantIDs map[VariantKey]string

// Dataset is a loaded experiment with its resolved ids and content fingerprint.
type Dataset struct {
	Source      string
	Fingerprint string
	IDs         VariantIDs
	Raw         RawDataset
}
