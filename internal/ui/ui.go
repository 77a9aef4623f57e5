package ui

import "github.com/felixgeelhaar/echomind/internal/workflow"

// UI receives workflow output from one-shot commands.
type UI interface {
	UpdateStatus(conn workflow.Connection)
	Notify(n workflow.Notice)
	Show(view any)
	Log(msg string)
}

type SilentUI struct{}

func (s SilentUI) UpdateStatus(conn workflow.Connection) {}
func (s SilentUI) Notify(n workflow.Notice)              {}
func (s SilentUI) Show(view any)                         {}
func (s SilentUI) Log(msg string)                        {}
