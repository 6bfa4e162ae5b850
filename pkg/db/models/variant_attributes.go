package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"

	"go.uber.org/multierr"
)

// Attribute keys accepted on a variant. Anything else is rejected on decode.
const (
	AttrKeySize     = "size"
	AttrKeyColor    = "color"
	AttrKeyFinish   = "finish"
	AttrKeyQuantity = "quantity"
	AttrKeySigned   = "signed"
)

var (
	// ApparelSizes are the sizes exposed by the store size filter.
	ApparelSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "OS"}
	// Colors are the colors exposed by the store color filter.
	Colors   = []string{"Black", "White", "Teal", "Violet"}
	Finishes = []string{"Matte", "Gloss", "Satin"}

	printSizePattern = regexp.MustCompile(`^\d{1,3}x\d{1,3}$`)
)

// VariantAttributes is the closed, typed attribute set of a variant.
type VariantAttributes struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Finish   string `json:"finish,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Signed   bool   `json:"signed,omitempty"`
}

// AttributeError reports a single invalid attribute.
type AttributeError struct {
	Key    string
	Reason string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute %q: %s", e.Key, e.Reason)
}

// Validate checks every attribute against its allowed values and returns all
// violations combined.
func (a VariantAttributes) Validate() error {
	var err error
	if a.Size != "" && !contains(ApparelSizes, a.Size) && !printSizePattern.MatchString(a.Size) {
		err = multierr.Append(err, &AttributeError{Key: AttrKeySize, Reason: "unsupported size " + a.Size})
	}
	if a.Color != "" && !contains(Colors, a.Color) {
		err = multierr.Append(err, &AttributeError{Key: AttrKeyColor, Reason: "unsupported color " + a.Color})
	}
	if a.Finish != "" && !contains(Finishes, a.Finish) {
		err = multierr.Append(err, &AttributeError{Key: AttrKeyFinish, Reason: "unsupported finish " + a.Finish})
	}
	if a.Quantity < 0 {
		err = multierr.Append(err, &AttributeError{Key: AttrKeyQuantity, Reason: "must be positive"})
	}
	return err
}

// ParseVariantAttributes decodes raw JSON strictly: unknown keys and values of
// the wrong type are errors, and the decoded set must validate.
func ParseVariantAttributes(raw []byte) (VariantAttributes, error) {
	var attrs VariantAttributes
	if len(bytes.TrimSpace(raw)) == 0 {
		return attrs, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&attrs); err != nil {
		return VariantAttributes{}, fmt.Errorf("decode attributes: %w", err)
	}
	if err := attrs.Validate(); err != nil {
		return VariantAttributes{}, err
	}
	return attrs, nil
}

// Value serializes the attributes to JSON.
func (a VariantAttributes) Value() (driver.Value, error) {
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes stored attributes. Rows are validated on write, so reads are
// lenient about keys added by older tooling.
func (a *VariantAttributes) Scan(value interface{}) error {
	if value == nil {
		*a = VariantAttributes{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("variant attributes: unsupported scan type %T", value)
	}
	var decoded VariantAttributes
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*a = decoded
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
