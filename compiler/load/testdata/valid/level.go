package valid

//derive:enumdict
type Level int

const (
	Debug Level = iota
	Info
	Warn
)
