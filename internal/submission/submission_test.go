package submission

import (
	"errors"
	"testing"
)

func valid() Submission {
	return Submission{
		FieldSite:         "MMB",
		FieldEmployeeCode: "15MB00270",
		FieldLine:         "L6",
		FieldProcessCode:  "99PH00090-L6",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := valid().Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_Missing(t *testing.T) {
	tests := []struct {
		name string
		drop string
	}{
		{"no site", FieldSite},
		{"no employee code", FieldEmployeeCode},
		{"no line", FieldLine},
		{"no process code", FieldProcessCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			delete(s, tt.drop)
			err := s.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if len(verr.Missing) != 1 || verr.Missing[0] != tt.drop {
				t.Errorf("Missing = %v, want [%s]", verr.Missing, tt.drop)
			}
		})
	}
}

func TestValidate_WhitespaceOnlyIsMissing(t *testing.T) {
	s := valid()
	s[FieldSite] = "   "
	if err := s.Validate(); err == nil {
		t.Error("Validate() accepted a whitespace-only required field")
	}
}

func TestSet_DropsBlankValues(t *testing.T) {
	s := valid()
	s.Set(FieldBrixKansui, "8.2")
	if s.Get(FieldBrixKansui) != "8.2" {
		t.Errorf("Get() = %q, want 8.2", s.Get(FieldBrixKansui))
	}
	s.Set(FieldBrixKansui, "  ")
	if _, ok := s[FieldBrixKansui]; ok {
		t.Error("Set() with blank value should remove the key")
	}
}

func TestClone_Independent(t *testing.T) {
	a := valid()
	b := a.Clone()
	b[FieldSite] = "MSI"
	if a[FieldSite] != "MMB" {
		t.Error("Clone() shares storage with the original")
	}
}
