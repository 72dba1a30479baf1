package translate

import (
	"time"

	"github.com/hoitkn/processqa/internal/submission"
)

// schemas.go holds the two external schemas. The column identifiers are
// bit-exact compatibility contracts with the deployed stores: the mangled
// tokens are the list service's internal names for the "Process data" list,
// the readable names are the columns of the Processmi table. Neither may be
// edited without a coordinated schema change on the remote side.

// List is the list-service schema (Mapping A).
var List = newMapping(
	"list",
	[]FieldMapping{
		{submission.FieldSite, "Site", Text},
		{submission.FieldLine, "Line_x0020_SX", Text},
		{submission.FieldEmployeeCode, "M_x00e3__x0020_nh_x00e2_n_x0020_", Text},
		{submission.FieldEmployeeCode, "MaNhanVienQA", Text},
		{submission.FieldProcessCode, "M_x00e3__x0020__x0110_KSX", Text},
		{submission.FieldProcessCode, "MaDKSX", Text},
		{submission.FieldProductName, "S_x1ea3_n_x0020_ph_x1ea9_m", Text},
		{submission.FieldProductName, "SanPham", Text},
		{submission.FieldProductionDate, "NSX", Text},
		{submission.FieldInspectionTime, "Gi_x1edd__x0020_ki_x1ec3_m_x002", Text},

		{submission.FieldBrixKansui, "Brix_x0020_Kansui", Numeric},
		{submission.FieldKansuiTemp, "Nhi_x1ec7_t_x0020__x0111__x1ed9_", Numeric},
		{submission.FieldKansuiAppearance, "Ngo_x1ea1_i_x0020_quan_x0020_Kan", Text},
		{submission.FieldBrixSeasoning, "Brix_x0020_Seasoning", Numeric},
		{submission.FieldSeasoningAppearance, "Ngo_x1ea1_i_x0020_quan_x0020_sea", Text},
		{submission.FieldSheetThickness, "_x0110__x1ed9__x0020_d_x00e0_y_x", Numeric},

		{submission.FieldTempHeadLeft, "Nhi_x1ec7_t_x0020__x0111__x1ea7_u", Numeric},
		{submission.FieldTempHeadRight, "Nhi_x1ec7_t_x0020__x0111__x1ea7_u0", Numeric},
		{submission.FieldTempMid1Left, "Nhi_x1ec7_t_x0020_gi_x1eef_a_x00", Numeric},
		{submission.FieldTempMid1Right, "Nhi_x1ec7_t_x0020_gi_x1eef_a_x000", Numeric},
		{submission.FieldTempMid2Left, "Nhi_x1ec7_t_x0020_gi_x1eef_a_x001", Numeric},
		{submission.FieldTempMid2Right, "Nhi_x1ec7_t_x0020_gi_x1eef_a_x002", Numeric},
		{submission.FieldTempMid3Left, "Nhi_x1ec7_t_x0020_gi_x1eef_a_x003", Numeric},
		{submission.FieldTempMid3Right, "Nhi_x1ec7_t_x0020_gi_x1eef_a_x004", Numeric},
		{submission.FieldTempTailLeft, "Nhi_x1ec7_t_x0020_cu_x1ed1_i_x00", Numeric},
		{submission.FieldTempTailRight, "Nhi_x1ec7_t_x0020_cu_x1ed1_i_x000", Numeric},

		{submission.FieldSensoryTexture, "C_x1ea3_m_x0020_quan_x0020_c_x01", Numeric},
		{submission.FieldSensoryColor, "C_x1ea3_m_x0020_quan_x0020_m_x00", Numeric},
		{submission.FieldSensorySmell, "C_x1ea3_m_x0020_quan_x0020_m_x00e", Numeric},
		{submission.FieldSensoryTaste, "C_x1ea3_m_x0020_quan_x0020_v_x1ec", Numeric},

		{submission.FieldClientRef, "ClientRef", Text},
	},
	[]string{"Title", "Site", "Line_x0020_SX", "NSX", "Gi_x1edd__x0020_ki_x1ec3_m_x002"},
	stampList,
	"",
)

// stampList generates the list schema's always-present columns.
func stampList(sub submission.Submission, now time.Time) map[string]any {
	return map[string]any{
		"Title": sub.Get(submission.FieldSite) + "-" + sub.Get(submission.FieldLine) + "-" + now.UTC().Format(time.RFC3339),
		"Site":  sub.Get(submission.FieldSite),
		"Line_x0020_SX":                   sub.Get(submission.FieldLine),
		"NSX":                             now.UTC().Format(time.RFC3339),
		"Gi_x1edd__x0020_ki_x1ec3_m_x002": now.Format("15:04:05"),
	}
}

// SQL is the relational schema (Mapping B). Columns are literal names in the
// Processmi table; several contain non-ASCII characters and must only ever
// travel through parameterized queries, never interpolated SQL text.
var SQL = newMapping(
	"sql",
	[]FieldMapping{
		{submission.FieldSite, "Site", Text},
		{submission.FieldEmployeeCode, "Mã nhân viên QA", Text},
		{submission.FieldProductionDate, "NSX (Ngày sản xuất)", Text},
		{submission.FieldInspectionTime, "Giờ kiểm tra", Text},
		{submission.FieldLine, "Line SX", Text},
		{submission.FieldProcessCode, "Mã ĐKSX", Text},

		{submission.FieldBrixKansui, "Brix Kansui", Numeric},
		{submission.FieldKansuiTemp, "Nhiệt độ Kansui", Numeric},
		{submission.FieldKansuiAppearance, "Ngoại quan Kansui", Text},
		{submission.FieldBrixSeasoning, "Brix Seasoning", Numeric},
		{submission.FieldSeasoningAppearance, "Ngoại quan Seasoning", Text},
		{submission.FieldSheetThickness, "Độ dày lá bột (mm)", Numeric},
		{submission.FieldStrandAppearance, "Ngoại quan sợi", Text},
		{submission.FieldSteamValvePressure, "Áp suất hơi van thành phần", Numeric},

		{submission.FieldTempHeadLeft, "Đầu trái", Numeric},
		{submission.FieldTempHeadRight, "Đầu phải", Numeric},
		{submission.FieldTempMid1Left, "Giữa 1 trái", Numeric},
		{submission.FieldTempMid1Right, "Giữa 1 phải", Numeric},
		{submission.FieldTempMid2Left, "Giữa 2 trái", Numeric},
		{submission.FieldTempMid2Right, "Giữa 2 phải", Numeric},
		{submission.FieldTempMid3Left, "Giữa 3 trái", Numeric},
		{submission.FieldTempMid3Right, "Giữa 3 phải", Numeric},
		{submission.FieldTempTailLeft, "Cuối trái", Numeric},
		{submission.FieldTempTailRight, "Cuối phải", Numeric},

		{submission.FieldBlankAppearance, "Ngoại quan phôi mì", Text},
		{submission.FieldBHAValve, "Van châm BHA/BHT", Text},

		{submission.FieldSensoryTexture, "Cơ tính sợi", Numeric},
		{submission.FieldSensoryColor, "Màu sắc", Numeric},
		{submission.FieldSensorySmell, "Mùi", Numeric},
		{submission.FieldSensoryTaste, "Vị", Numeric},
	},
	[]string{"Site", "NSX (Ngày sản xuất)", "Giờ kiểm tra"},
	stampSQL,
	"Mô tả cảm quan (nếu có)",
)

// stampSQL generates the relational schema's always-present columns.
func stampSQL(sub submission.Submission, now time.Time) map[string]any {
	return map[string]any{
		"Site":                sub.Get(submission.FieldSite),
		"NSX (Ngày sản xuất)": now.Format("2006-01-02"),
		"Giờ kiểm tra":        now.Format("15:04:05"),
	}
}
