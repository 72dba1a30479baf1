package refdata

import (
	"reflect"
	"testing"
)

var employeeHeader = []string{"STT", "Site", "Mã NV", "Tên", "Email", "Nhóm", "Vai trò"}

func TestLoadEmployees(t *testing.T) {
	rows := Rows{
		employeeHeader,
		{"1", "MMB", "15MB00270", "Ta Thi Thai", "", "Noodle", "Staff"},
		{"2", "MMB", "17MB01251", "Le Khoa", "khoa@example.com", "Mam, CSD", "Quản lý"},
		{},                                    // empty row: skipped
		{"3", "MSI", "", "No ID", "", "", ""}, // missing key column: skipped
		{"4", "MSI"},                          // short row with no ID cell: skipped
	}

	got := LoadEmployees(rows)
	if len(got) != 2 {
		t.Fatalf("LoadEmployees() returned %d records, want 2", len(got))
	}

	first := got[0]
	if first.Site != "MMB" || first.EmployeeID != "15MB00270" || first.Role != "Staff" {
		t.Errorf("first employee = %+v, want site MMB, id 15MB00270, role Staff", first)
	}
	if !first.Active {
		t.Error("first employee Active = false, want true")
	}
	if want := []string{"read", "write"}; !reflect.DeepEqual(first.Permissions, want) {
		t.Errorf("staff permissions = %v, want %v", first.Permissions, want)
	}

	second := got[1]
	if want := []string{"read", "write", "delete", "admin"}; !reflect.DeepEqual(second.Permissions, want) {
		t.Errorf("manager permissions = %v, want %v", second.Permissions, want)
	}
}

func TestLoadNoodleConditions(t *testing.T) {
	row := make([]string, 26)
	row[0] = "1"
	row[1] = "MMB"
	row[2] = "Omachi"
	row[3] = "KKM65 MB TCC"
	row[4] = "ITEM01"
	row[5] = "99PH00090-L6"
	row[6] = "Powder A"
	row[7] = "KKM65 MB TCC"
	row[8] = "140"  // temp head min
	row[9] = "180"  // temp head max
	row[18] = "0.88" // thickness min
	row[19] = "0.91" // thickness max
	row[20] = "8.0"  // brix kansui min
	row[21] = "8.3"  // brix kansui max
	row[24] = "abc"  // malformed numeric: nil, not zero

	rows := Rows{
		make([]string, 26), // header, ignored
		row,
		{"2", "MMB", "Omachi", "No code", "ITEM02", ""}, // missing process code: skipped
	}

	got := LoadNoodleConditions(rows)
	if len(got) != 1 {
		t.Fatalf("LoadNoodleConditions() returned %d records, want 1", len(got))
	}

	cond := got[0]
	if cond.ProcessCode != "99PH00090-L6" {
		t.Errorf("ProcessCode = %q, want %q", cond.ProcessCode, "99PH00090-L6")
	}
	if cond.Line != "L6" {
		t.Errorf("Line = %q, want %q", cond.Line, "L6")
	}
	if cond.TempHead.Min == nil || *cond.TempHead.Min != 140 {
		t.Errorf("TempHead.Min = %v, want 140", cond.TempHead.Min)
	}
	if cond.Thickness.Max == nil || *cond.Thickness.Max != 0.91 {
		t.Errorf("Thickness.Max = %v, want 0.91", cond.Thickness.Max)
	}
	if cond.BrixKansui.Min == nil || *cond.BrixKansui.Min != 8.0 {
		t.Errorf("BrixKansui.Min = %v, want 8.0", cond.BrixKansui.Min)
	}
	if cond.BrixSeasoning.Min != nil {
		t.Errorf("BrixSeasoning.Min = %v, want nil for malformed cell", *cond.BrixSeasoning.Min)
	}
	if cond.TempMid1.Min != nil || cond.TempMid1.Max != nil {
		t.Error("TempMid1 bounds should be nil for blank cells")
	}
}

func TestLoadNoodleConditions_Deterministic(t *testing.T) {
	row := make([]string, 26)
	row[1] = "MMB"
	row[5] = "99PH00090-L6"
	rows := Rows{make([]string, 26), row}

	a := LoadNoodleConditions(rows)
	b := LoadNoodleConditions(rows)
	if !reflect.DeepEqual(a, b) {
		t.Error("re-running the loader on the same input produced different output")
	}
}

func TestLoadRiceNoodleConditions(t *testing.T) {
	row := make([]string, 15)
	row[0] = "1"
	row[1] = "MSI"
	row[3] = "Pho LINE 3"
	row[5] = "88PH00120"
	row[6] = "Grain B"
	row[8] = "3.1"
	row[9] = "3.4"
	row[14] = "12.5"

	rows := Rows{make([]string, 15), row}
	got := LoadRiceNoodleConditions(rows)
	if len(got) != 1 {
		t.Fatalf("LoadRiceNoodleConditions() returned %d records, want 1", len(got))
	}
	cond := got[0]
	if cond.Line != "L3" {
		t.Errorf("Line = %q, want L3 (from product name)", cond.Line)
	}
	if cond.BaumeKansui.Max == nil || *cond.BaumeKansui.Max != 3.4 {
		t.Errorf("BaumeKansui.Max = %v, want 3.4", cond.BaumeKansui.Max)
	}
	if cond.MoistureMax == nil || *cond.MoistureMax != 12.5 {
		t.Errorf("MoistureMax = %v, want 12.5", cond.MoistureMax)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"  ", nil},
		{"abc", nil},
		{"8.3", f(8.3)},
		{" 14 ", f(14)},
		{"-0.5", f(-0.5)},
		{"1,5", nil}, // localized decimal comma is out of scope
	}
	for _, tt := range tests {
		got := ParseFloat(tt.in)
		switch {
		case got == nil && tt.want == nil:
		case got == nil || tt.want == nil:
			t.Errorf("ParseFloat(%q) = %v, want %v", tt.in, got, tt.want)
		case *got != *tt.want:
			t.Errorf("ParseFloat(%q) = %v, want %v", tt.in, *got, *tt.want)
		}
	}
}

func f(v float64) *float64 { return &v }
