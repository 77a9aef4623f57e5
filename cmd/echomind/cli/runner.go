package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/echomind/internal/batch"
	"github.com/felixgeelhaar/echomind/internal/observe"
	"github.com/felixgeelhaar/echomind/internal/ui"
	"github.com/felixgeelhaar/echomind/internal/workflow"
)

// Runner executes one workflow per command and reports through the UI.
type Runner struct {
	Observer  *observe.Observer
	Workflows *workflow.Workflows
	UI        ui.UI
}

func NewRunner(obs *observe.Observer, wf *workflow.Workflows, u ui.UI) *Runner {
	if u == nil {
		u = ui.SilentUI{}
	}
	return &Runner{
		Observer:  obs,
		Workflows: wf,
		UI:        u,
	}
}

// newRunner builds a Runner from the global flags. Logs go to stderr so that
// stdout carries only command output.
func newRunner(cmd *cobra.Command) (*Runner, func(), error) {
	var obs *observe.Observer
	var u ui.UI
	if jsonOut {
		obs = observe.NewJSON(cmd.ErrOrStderr(), verbose)
		u = ui.NewJSON(cmd.OutOrStdout())
	} else {
		obs = observe.New(cmd.ErrOrStderr(), verbose)
		u = ui.NewConsole(cmd.OutOrStdout())
	}

	wf, err := buildWorkflows(obs)
	if err != nil {
		obs.Close()
		return nil, nil, err
	}
	return NewRunner(obs, wf, u), func() { obs.Close() }, nil
}

func (r *Runner) notify(notices ...workflow.Notice) error {
	failed := false
	for _, n := range notices {
		r.UI.Notify(n)
		failed = failed || n.Failed()
	}
	if failed {
		return errFailed
	}
	return nil
}

func (r *Runner) Add(ctx context.Context, text string) error {
	v := r.Workflows.Add(ctx, workflow.AddView{Input: text})
	return r.notify(v.Notice)
}

func (r *Runner) Search(ctx context.Context, query string) error {
	v := r.Workflows.Search(ctx, workflow.SearchView{Input: query})
	if err := r.notify(v.Notice); err != nil {
		return err
	}
	if len(v.Results) > 0 {
		r.UI.Show(v)
	}
	return nil
}

func (r *Runner) List(ctx context.Context) error {
	v := r.Workflows.Refresh(ctx)
	if err := r.notify(v.Notices...); err != nil {
		return err
	}
	r.UI.Show(v)
	return nil
}

func (r *Runner) Delete(ctx context.Context, id string) error {
	v := r.Workflows.Delete(ctx, workflow.ManageView{}, id)
	return r.notify(v.Notices...)
}

func (r *Runner) Status(ctx context.Context) error {
	conn := r.Workflows.Status(ctx)
	r.UI.UpdateStatus(conn)
	if conn != workflow.Connected {
		r.Observer.Log().Warn().Str("base_url", r.Workflows.BaseURL()).Msg("Memory service unreachable")
		return errFailed
	}
	return nil
}

// Import expands the patterns and stores every entry of the matched files.
func (r *Runner) Import(ctx context.Context, patterns []string) error {
	paths, err := batch.Expand(patterns)
	if err != nil {
		return err
	}
	for _, p := range paths {
		f, err := batch.Load(p)
		if err != nil {
			return err
		}
		for _, w := range batch.Validate(*f).Warnings {
			r.UI.Log(p + ": " + w)
		}
	}

	sum, err := batch.NewImporter(r.Workflows).Import(ctx, paths)
	if err != nil {
		return err
	}
	r.UI.Show(sum)
	if sum.Failed > 0 {
		return errFailed
	}
	return nil
}
