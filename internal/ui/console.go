package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/felixgeelhaar/echomind/internal/batch"
	"github.com/felixgeelhaar/echomind/internal/workflow"
)

// Console prints styled output for humans.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) UpdateStatus(conn workflow.Connection) {
	fmt.Fprintf(c.out, "API Status: %s\n", RenderConnection(conn))
}

func (c *Console) Notify(n workflow.Notice) {
	if !n.IsZero() {
		fmt.Fprintln(c.out, RenderNotice(n))
	}
}

func (c *Console) Log(msg string) {
	fmt.Fprintln(c.out, msg)
}

// Show prints the rendered form of a workflow view or import summary.
func (c *Console) Show(view any) {
	switch v := view.(type) {
	case workflow.SearchView:
		if out := RenderResults(v.Results); out != "" {
			fmt.Fprintln(c.out, out)
		}
	case workflow.ManageView:
		if !v.Loaded {
			return
		}
		if v.Empty() {
			c.Notify(workflow.Notice{Level: workflow.LevelInfo, Text: workflow.NothingStored})
			return
		}
		fmt.Fprintln(c.out, RenderListingHeader(v.Total))
		for i, m := range v.Memories {
			fmt.Fprintln(c.out, RenderMemory(i, m, true))
		}
	case batch.Summary:
		for _, o := range v.Outcomes {
			fmt.Fprintf(c.out, "%s #%d: %s\n", o.Path, o.Entry, RenderNotice(o.Notice))
		}
		fmt.Fprintf(c.out, "Imported %d, failed %d, skipped %d\n", v.Stored, v.Failed, v.Skipped)
	}
}

// JSON writes one JSON object per line for scripts and CI.
type JSON struct {
	enc *json.Encoder
}

func NewJSON(out io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(out)}
}

func (j *JSON) UpdateStatus(conn workflow.Connection) {
	_ = j.enc.Encode(map[string]string{"status": conn.String()})
}

func (j *JSON) Notify(n workflow.Notice) {
	if !n.IsZero() {
		_ = j.enc.Encode(map[string]workflow.Notice{"notice": n})
	}
}

func (j *JSON) Show(view any) {
	_ = j.enc.Encode(map[string]any{"result": view})
}

func (j *JSON) Log(msg string) {
	_ = j.enc.Encode(map[string]string{"log": msg})
}
