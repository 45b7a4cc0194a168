package valid

import "time"

// Command describes a process to start.
//
//derive:builder
type Command struct {
	Executable string
	Args       []string `builder:"each=arg"`
	Env        []string `builder:"each=env"`
	CurrentDir *string
	Timeout    *time.Duration
}

// Plain is not annotated.
type Plain struct {
	Name string
}
