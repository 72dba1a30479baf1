package refdata

import "testing"

func TestExtractLine(t *testing.T) {
	tests := []struct {
		name        string
		processCode string
		productName string
		want        string
	}{
		{"dash prefix", "99PH00090-L6", "", "L6"},
		{"dash prefix lowercase", "99ph00090-l3", "", "L3"},
		{"line keyword", "DKSX LINE 4", "", "L4"},
		{"bare L digits", "KKL12 MB", "", "L12"},
		{"fallback to product name", "99PH00090", "Omachi LINE 2", "L2"},
		{"fallback dash in product name", "99PH00090", "Omachi-L7 special", "L7"},
		{"no match anywhere", "99PH00090", "Omachi", ""},
		{"both empty", "", "", ""},
		{"process code wins over product name", "A-L1", "B-L2", "L1"},
		{"multi digit", "DKSX-L10", "", "L10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLine(tt.processCode, tt.productName)
			if got != tt.want {
				t.Errorf("ExtractLine(%q, %q) = %q, want %q",
					tt.processCode, tt.productName, got, tt.want)
			}
		})
	}
}
