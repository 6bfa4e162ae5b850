package models

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
)

func TestParseVariantAttributesRejectsUnknownKeys(t *testing.T) {
	if _, err := ParseVariantAttributes([]byte(`{"size":"M","material":"cotton"}`)); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestParseVariantAttributesRejectsWrongTypes(t *testing.T) {
	cases := []string{
		`{"quantity":"five"}`,
		`{"signed":"yes"}`,
		`{"size":12}`,
	}
	for _, raw := range cases {
		if _, err := ParseVariantAttributes([]byte(raw)); err == nil {
			t.Fatalf("expected %s to be rejected", raw)
		}
	}
}

func TestParseVariantAttributesAcceptsKnownShapes(t *testing.T) {
	attrs, err := ParseVariantAttributes([]byte(`{"size":"XL","color":"Black","signed":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.Size != "XL" || attrs.Color != "Black" || !attrs.Signed {
		t.Fatalf("unexpected attrs %+v", attrs)
	}

	poster, err := ParseVariantAttributes([]byte(`{"size":"18x24","finish":"Matte"}`))
	if err != nil {
		t.Fatalf("print size should be accepted: %v", err)
	}
	if poster.Finish != "Matte" {
		t.Fatalf("unexpected finish %q", poster.Finish)
	}

	empty, err := ParseVariantAttributes(nil)
	if err != nil || empty != (VariantAttributes{}) {
		t.Fatalf("expected empty attrs, got %+v (%v)", empty, err)
	}
}

func TestValidateCombinesViolations(t *testing.T) {
	err := VariantAttributes{Size: "huge", Color: "Plaid", Quantity: -1}.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(errs), err)
	}
	var attrErr *AttributeError
	if !errors.As(errs[0], &attrErr) || attrErr.Key != AttrKeySize {
		t.Fatalf("expected size violation first, got %v", errs[0])
	}
}

func TestVariantBeforeSaveSyncsFilterColumns(t *testing.T) {
	v := &Variant{Attributes: VariantAttributes{Size: "M", Color: "Teal", Signed: true}}
	if err := v.BeforeSave(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AttrSize == nil || *v.AttrSize != "M" {
		t.Fatalf("expected attr_size M, got %v", v.AttrSize)
	}
	if v.AttrColor == nil || *v.AttrColor != "Teal" {
		t.Fatalf("expected attr_color Teal, got %v", v.AttrColor)
	}
	if !v.Signed {
		t.Fatal("signed attribute should mark the variant signed")
	}

	bad := &Variant{Attributes: VariantAttributes{Color: "Plaid"}}
	if err := bad.BeforeSave(nil); err == nil {
		t.Fatal("expected invalid attributes to block the write")
	}
}
