package model

import "strings"

// ProcedureCall names a stored procedure and its positional arguments.
type ProcedureCall struct {
	Name string
	Args []any
}

// NewProcedureCall builds a call in argument order.
func NewProcedureCall(name string, args ...any) ProcedureCall {
	return ProcedureCall{Name: name, Args: args}
}

// Statement renders "CALL name(?, ?, ...)" with one placeholder per argument.
func (c ProcedureCall) Statement() string {
	placeholders := make([]string, len(c.Args))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return "CALL " + c.Name + "(" + strings.Join(placeholders, ", ") + ")"
}

// Rating is a new review submitted for a piece of content.
type Rating struct {
	ProfileID int64
	ContentID int64
	Rating    float64
	Review    string
}
