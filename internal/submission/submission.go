// Package submission defines the canonical quality-control record: the
// normalized, schema-agnostic shape every caller produces before the record
// is translated to a specific external store.
package submission

import (
	"fmt"
	"strings"
)

// Canonical field names. These mirror the names the entry form has always
// used; the translate package maps them to the external column identifiers.
const (
	FieldSite         = "site"
	FieldEmployeeCode = "maNhanVien"
	FieldLine         = "lineSX"
	FieldProcessCode  = "maDKSX"
	FieldProductName  = "sanPham"

	FieldProductionDate = "nsx"
	FieldInspectionTime = "gioKiemTra"

	FieldBrixKansui          = "brixKansui"
	FieldKansuiTemp          = "nhietDoKansui"
	FieldKansuiAppearance    = "ngoaiQuanKansui"
	FieldBrixSeasoning       = "brixSeasoning"
	FieldSeasoningAppearance = "ngoaiQuanSeasoning"
	FieldSheetThickness      = "doDayLaBot"
	FieldStrandAppearance    = "ngoaiQuanSoi"
	FieldSteamValvePressure  = "apSuatHoiVan"

	FieldTempHeadLeft  = "nhietDauTrai"
	FieldTempHeadRight = "nhietDauPhai"
	FieldTempMid1Left  = "nhietGiua1Trai"
	FieldTempMid1Right = "nhietGiua1Phai"
	FieldTempMid2Left  = "nhietGiua2Trai"
	FieldTempMid2Right = "nhietGiua2Phai"
	FieldTempMid3Left  = "nhietGiua3Trai"
	FieldTempMid3Right = "nhietGiua3Phai"
	FieldTempTailLeft  = "nhietCuoiTrai"
	FieldTempTailRight = "nhietCuoiPhai"

	FieldBlankAppearance = "ngoaiQuanPhoiMi"
	FieldBHAValve        = "vanChamBHA"

	FieldSensoryTexture = "camQuanCoTinh"
	FieldSensoryColor   = "camQuanMau"
	FieldSensorySmell   = "camQuanMui"
	FieldSensoryTaste   = "camQuanVi"

	FieldSensoryNotes = "moTaCamQuan"
	FieldStrandNotes  = "moTaSoi"

	// FieldClientRef carries the client-generated idempotency key. It is
	// attached by the sync engine before the first send and preserved
	// across retries.
	FieldClientRef = "clientRef"
)

// Required lists the fields a submission must carry to be queueable at all.
var Required = []string{FieldSite, FieldEmployeeCode, FieldLine, FieldProcessCode}

// Submission is one canonical record: a flat mapping of field name to raw
// value. Every field is optional except the Required set. Values are kept as
// entered; numeric coercion happens at translation time.
type Submission map[string]string

// Get returns the trimmed value for a field, "" when absent.
func (s Submission) Get(field string) string {
	return strings.TrimSpace(s[field])
}

// Set stores a value, dropping the key when the value is blank.
func (s Submission) Set(field, value string) {
	if strings.TrimSpace(value) == "" {
		delete(s, field)
		return
	}
	s[field] = value
}

// Clone returns an independent copy.
func (s Submission) Clone() Submission {
	out := make(Submission, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Validate checks the Required fields. A failing submission is rejected
// before translation and never queued.
func (s Submission) Validate() error {
	var missing []string
	for _, field := range Required {
		if s.Get(field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// ValidationError reports the required canonical fields a submission lacks.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission missing required fields: %s", strings.Join(e.Missing, ", "))
}
