package model

type RollName struct {
	Roll string `csv:"Roll"`
	Name string `csv:"Name"`
}

type AttendanceRow struct {
	Roll      string `csv:"Roll"`
	Name      string `csv:"Student Name"`
	Signature string `csv:"Signature"`
}
