package refdata

// columns.go fixes the column-to-field positions for each sheet shape.
//
// Column order is the contract with the workbooks: header names are
// documentation, not a lookup key. When the QA team reorders a sheet, these
// tables change; the parsing logic in loader.go does not.

// employeeColumnIndexes positions the employee roster fields.
type employeeColumnIndexes struct {
	SequenceNo int
	Site       int
	EmployeeID int
	Name       int
	Email      int
	Group      int
	Role       int
}

var employeeColumns = employeeColumnIndexes{
	SequenceNo: 0,
	Site:       1,
	EmployeeID: 2,
	Name:       3,
	Email:      4,
	Group:      5,
	Role:       6,
}

// noodleColumnIndexes positions the noodle process-condition fields.
type noodleColumnIndexes struct {
	SequenceNo  int
	Site        int
	Brand       int
	ProductName int
	ItemCode    int
	ProcessCode int
	PowderName  int
	UnifiedName int

	TempHeadMin int
	TempHeadMax int
	TempMid1Min int
	TempMid1Max int
	TempMid2Min int
	TempMid2Max int
	TempMid3Min int
	TempMid3Max int
	TempTailMin int
	TempTailMax int

	ThicknessMin     int
	ThicknessMax     int
	BrixKansuiMin    int
	BrixKansuiMax    int
	TempKansuiMin    int
	TempKansuiMax    int
	BrixSeasoningMin int
	BrixSeasoningMax int
}

var noodleColumns = noodleColumnIndexes{
	SequenceNo:  0,
	Site:        1,
	Brand:       2,
	ProductName: 3,
	ItemCode:    4,
	ProcessCode: 5,
	PowderName:  6,
	UnifiedName: 7,

	TempHeadMin: 8,
	TempHeadMax: 9,
	TempMid1Min: 10,
	TempMid1Max: 11,
	TempMid2Min: 12,
	TempMid2Max: 13,
	TempMid3Min: 14,
	TempMid3Max: 15,
	TempTailMin: 16,
	TempTailMax: 17,

	ThicknessMin:     18,
	ThicknessMax:     19,
	BrixKansuiMin:    20,
	BrixKansuiMax:    21,
	TempKansuiMin:    22,
	TempKansuiMax:    23,
	BrixSeasoningMin: 24,
	BrixSeasoningMax: 25,
}

// riceNoodleColumnIndexes positions the rice-noodle process-condition fields.
type riceNoodleColumnIndexes struct {
	ID          int
	Site        int
	Brand       int
	ProductName int
	ItemCode    int
	ProcessCode int
	GrainName   int
	UnifiedName int

	BaumeKansuiMin         int
	BaumeKansuiMax         int
	BaumeClearSolutionMin  int
	BaumeClearSolutionMax  int
	ThicknessAfterSteamMin int
	ThicknessAfterSteamMax int
	MoistureMax            int
}

var riceNoodleColumns = riceNoodleColumnIndexes{
	ID:          0,
	Site:        1,
	Brand:       2,
	ProductName: 3,
	ItemCode:    4,
	ProcessCode: 5,
	GrainName:   6,
	UnifiedName: 7,

	BaumeKansuiMin:         8,
	BaumeKansuiMax:         9,
	BaumeClearSolutionMin:  10,
	BaumeClearSolutionMax:  11,
	ThicknessAfterSteamMin: 12,
	ThicknessAfterSteamMax: 13,
	MoistureMax:            14,
}
