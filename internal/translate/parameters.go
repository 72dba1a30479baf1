package translate

import (
	"github.com/hoitkn/processqa/internal/refdata"
)

// ParameterID is the list-service item identifier for a catalog condition.
func ParameterID(c refdata.NoodleCondition) string {
	return "param_" + c.ProcessCode
}

// ParameterFields renders one catalog condition in the parameter list's
// schema, the shape list-service consumers already read. The column tokens
// are the deployed "Process parameter" list's internal names and, like the
// submission schemas, must not change without a remote schema change. Nil
// bounds are omitted.
func ParameterFields(c refdata.NoodleCondition) map[string]any {
	out := map[string]any{
		"M_x00e3__x0020__x0110_KSX":      c.ProcessCode,
		"T_x00ea_n_x0020_tr_x00ea_n_x00": c.UnifiedName,
		"Site":                           c.Site,
		"Line":                           c.Line,
	}

	setBound := func(col string, v *float64) {
		if v != nil {
			out[col] = *v
		}
	}
	setBound("Brix_x0020_Kansui_x0020_Min", c.BrixKansui.Min)
	setBound("Brix_x0020_Kansui_x0020_Max", c.BrixKansui.Max)
	setBound("Nhi_x1ec7_t_x0020_Kanshui_x00", c.TempKansui.Min)
	setBound("Nhi_x1ec7_t_x0020_Kanshui_x000", c.TempKansui.Max)
	setBound("Brix_x0020_Sea_x0020_Min", c.BrixSeasoning.Min)
	setBound("Brix_x0020_Sea_x0020_Max", c.BrixSeasoning.Max)
	setBound("_x0110__x1ed9__x0020_d_x00e0_y_x0", c.Thickness.Min)
	setBound("_x0110__x1ed9__x0020_d_x00e0_y_x1", c.Thickness.Max)
	setBound("Nhi_x1ec7_t_x0020__x0110__x1ea7_", c.TempHead.Min)
	setBound("Nhi_x1ec7_t_x0020__x0110__x1ea7_0", c.TempHead.Max)
	setBound("Nhi_x1ec7_t_x0020_Gi_x1eef_a_x0", c.TempMid1.Min)
	setBound("Nhi_x1ec7_t_x0020_Gi_x1eef_a_x00", c.TempMid1.Max)
	setBound("Nhi_x1ec7_t_x0020_Cu_x1ed1_i_x0", c.TempTail.Min)
	setBound("Nhi_x1ec7_t_x0020_Cu_x1ed1_i_x00", c.TempTail.Max)

	return out
}
