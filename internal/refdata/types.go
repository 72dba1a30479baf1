// Package refdata parses the raw reference workbooks into typed records.
// This package has no knowledge of where the rows came from; it only
// understands the two tabular shapes the QA team maintains (the employee
// roster and the process-condition sheets) and turns them into structs the
// catalog can index.
package refdata

// Rows is the raw content of one worksheet: row 0 is the header, rows 1..n
// are data. Header cells are kept for logging only; parsing is positional.
type Rows [][]string

// Range is a permitted [Min, Max] interval for a measured parameter.
// A nil bound means the sheet left that cell blank or unparseable.
type Range struct {
	Min *float64
	Max *float64
}

// Employee is one row of the employee roster.
type Employee struct {
	SequenceNo string
	Site       string
	EmployeeID string // unique key; rows without it are skipped
	Name       string
	Email      string
	Group      string
	Role       string
	Active     bool
	Credential string // placeholder only, never a real secret
	// Permissions is derived from Role at load time unless the caller
	// supplied an explicit set upstream.
	Permissions []string
}

// NoodleCondition is one producible item from the noodle process-condition
// sheet, identified externally by ProcessCode.
type NoodleCondition struct {
	SequenceNo  string
	Site        string
	Brand       string
	ProductName string
	ItemCode    string
	ProcessCode string // the external key ("maDKSX"); rows without it are skipped
	PowderName  string
	UnifiedName string
	Line        string // derived via ExtractLine; may be ""

	TempHead Range
	TempMid1 Range
	TempMid2 Range
	TempMid3 Range
	TempTail Range

	Thickness     Range
	BrixKansui    Range
	TempKansui    Range
	BrixSeasoning Range
}

// RiceNoodleCondition is the parallel record for the rice-noodle family.
type RiceNoodleCondition struct {
	ID          string
	Site        string
	Brand       string
	ProductName string
	ItemCode    string
	ProcessCode string
	GrainName   string
	UnifiedName string
	Line        string

	BaumeKansui         Range
	BaumeClearSolution  Range
	ThicknessAfterSteam Range
	MoistureMax         *float64
}
