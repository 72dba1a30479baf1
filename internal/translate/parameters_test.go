package translate

import (
	"testing"

	"github.com/hoitkn/processqa/internal/refdata"
)

func TestParameterFields(t *testing.T) {
	min, max := 8.0, 8.3
	cond := refdata.NoodleCondition{
		ProcessCode: "99PH00090-L6",
		UnifiedName: "KKM65 MB TCC",
		Site:        "MMB",
		Line:        "L6",
		BrixKansui:  refdata.Range{Min: &min, Max: &max},
	}

	fields := ParameterFields(cond)

	if fields["M_x00e3__x0020__x0110_KSX"] != "99PH00090-L6" {
		t.Errorf("process code column = %v, want 99PH00090-L6", fields["M_x00e3__x0020__x0110_KSX"])
	}
	if fields["T_x00ea_n_x0020_tr_x00ea_n_x00"] != "KKM65 MB TCC" {
		t.Errorf("unified name column = %v, want KKM65 MB TCC", fields["T_x00ea_n_x0020_tr_x00ea_n_x00"])
	}
	if fields["Brix_x0020_Kansui_x0020_Min"] != 8.0 {
		t.Errorf("brix min = %v, want 8.0", fields["Brix_x0020_Kansui_x0020_Min"])
	}

	// Nil bounds are omitted, not emitted as zero.
	if _, ok := fields["Brix_x0020_Sea_x0020_Min"]; ok {
		t.Error("unset seasoning bound should be omitted")
	}
	if _, ok := fields["Nhi_x1ec7_t_x0020_Kanshui_x00"]; ok {
		t.Error("unset kansui temperature bound should be omitted")
	}

	if got := ParameterID(cond); got != "param_99PH00090-L6" {
		t.Errorf("ParameterID() = %q, want param_99PH00090-L6", got)
	}
}
