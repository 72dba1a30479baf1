package refdata

import (
	"strconv"
	"strings"
)

// Elevated and basic permission sets, derived from the roster role.
var (
	managerPermissions = []string{"read", "write", "delete", "admin"}
	staffPermissions   = []string{"read", "write"}
)

// LoadEmployees parses the employee roster rows. Rows without an employee ID
// are skipped, never an error. Output order follows input order.
func LoadEmployees(rows Rows) []Employee {
	c := employeeColumns
	out := make([]Employee, 0, maxRecords(rows))
	for _, row := range dataRows(rows) {
		id := cell(row, c.EmployeeID)
		if id == "" {
			continue
		}
		role := cell(row, c.Role)
		out = append(out, Employee{
			SequenceNo:  cell(row, c.SequenceNo),
			Site:        cell(row, c.Site),
			EmployeeID:  id,
			Name:        cell(row, c.Name),
			Email:       cell(row, c.Email),
			Group:       cell(row, c.Group),
			Role:        role,
			Active:      true,
			Permissions: permissionsForRole(role),
		})
	}
	return out
}

// LoadNoodleConditions parses the noodle process-condition rows. Rows without
// a process code are skipped. Malformed numeric cells become nil bounds.
func LoadNoodleConditions(rows Rows) []NoodleCondition {
	c := noodleColumns
	out := make([]NoodleCondition, 0, maxRecords(rows))
	for _, row := range dataRows(rows) {
		code := cell(row, c.ProcessCode)
		if code == "" {
			continue
		}
		productName := cell(row, c.ProductName)
		out = append(out, NoodleCondition{
			SequenceNo:  cell(row, c.SequenceNo),
			Site:        cell(row, c.Site),
			Brand:       cell(row, c.Brand),
			ProductName: productName,
			ItemCode:    cell(row, c.ItemCode),
			ProcessCode: code,
			PowderName:  cell(row, c.PowderName),
			UnifiedName: cell(row, c.UnifiedName),
			Line:        ExtractLine(code, productName),

			TempHead: parseRange(row, c.TempHeadMin, c.TempHeadMax),
			TempMid1: parseRange(row, c.TempMid1Min, c.TempMid1Max),
			TempMid2: parseRange(row, c.TempMid2Min, c.TempMid2Max),
			TempMid3: parseRange(row, c.TempMid3Min, c.TempMid3Max),
			TempTail: parseRange(row, c.TempTailMin, c.TempTailMax),

			Thickness:     parseRange(row, c.ThicknessMin, c.ThicknessMax),
			BrixKansui:    parseRange(row, c.BrixKansuiMin, c.BrixKansuiMax),
			TempKansui:    parseRange(row, c.TempKansuiMin, c.TempKansuiMax),
			BrixSeasoning: parseRange(row, c.BrixSeasoningMin, c.BrixSeasoningMax),
		})
	}
	return out
}

// LoadRiceNoodleConditions parses the rice-noodle process-condition rows.
func LoadRiceNoodleConditions(rows Rows) []RiceNoodleCondition {
	c := riceNoodleColumns
	out := make([]RiceNoodleCondition, 0, maxRecords(rows))
	for _, row := range dataRows(rows) {
		code := cell(row, c.ProcessCode)
		if code == "" {
			continue
		}
		productName := cell(row, c.ProductName)
		out = append(out, RiceNoodleCondition{
			ID:          cell(row, c.ID),
			Site:        cell(row, c.Site),
			Brand:       cell(row, c.Brand),
			ProductName: productName,
			ItemCode:    cell(row, c.ItemCode),
			ProcessCode: code,
			GrainName:   cell(row, c.GrainName),
			UnifiedName: cell(row, c.UnifiedName),
			Line:        ExtractLine(code, productName),

			BaumeKansui:         parseRange(row, c.BaumeKansuiMin, c.BaumeKansuiMax),
			BaumeClearSolution:  parseRange(row, c.BaumeClearSolutionMin, c.BaumeClearSolutionMax),
			ThicknessAfterSteam: parseRange(row, c.ThicknessAfterSteamMin, c.ThicknessAfterSteamMax),
			MoistureMax:         ParseFloat(cell(row, c.MoistureMax)),
		})
	}
	return out
}

// permissionsForRole derives the permission set from a roster role. The
// production roster uses the Vietnamese label; "Manager" is accepted for
// sheets exported with translated headers.
func permissionsForRole(role string) []string {
	switch strings.TrimSpace(role) {
	case "Quản lý", "Manager":
		return append([]string(nil), managerPermissions...)
	default:
		return append([]string(nil), staffPermissions...)
	}
}

// ParseFloat is the tolerant numeric parse used for every sheet cell:
// empty or non-numeric text yields nil, never zero and never an error.
// Only the standard "." decimal separator is accepted.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseRange(row []string, minIdx, maxIdx int) Range {
	return Range{
		Min: ParseFloat(cell(row, minIdx)),
		Max: ParseFloat(cell(row, maxIdx)),
	}
}

// cell safely reads a positional cell; short rows read as empty cells.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// dataRows returns the rows after the header, skipping fully empty rows.
func dataRows(rows Rows) [][]string {
	if len(rows) < 2 {
		return nil
	}
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

func maxRecords(rows Rows) int {
	if len(rows) < 2 {
		return 0
	}
	return len(rows) - 1
}
