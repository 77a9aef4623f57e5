// Package workflow implements the three user workflows (add, search, manage)
// and the connectivity check on top of the memory service API.
//
// Every workflow owns an explicit view state. Operations take the current view
// state and return the next one; nothing is shared between workflows and no
// listing is ever patched locally. A successful delete re-fetches the listing
// as part of the same operation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/echomind/internal/client"
	"github.com/felixgeelhaar/echomind/internal/events"
	"github.com/felixgeelhaar/echomind/internal/memory"
)

// TopK is the fixed number of snippets requested per search.
const TopK = 5

// Workflow names used on published events.
const (
	NameAdd    = "add"
	NameSearch = "search"
	NameManage = "manage"
	NameStatus = "status"
)

// ErrEmptyInput is returned by Validate for blank input.
var ErrEmptyInput = errors.New("input is empty")

// Validate trims s and rejects it when nothing is left.
func Validate(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", ErrEmptyInput
	}
	return t, nil
}

// Workflows runs user actions against the API and publishes their outcomes.
type Workflows struct {
	api client.API
	bus *events.Bus
}

// New creates Workflows. A nil bus gets a private one.
func New(api client.API, bus *events.Bus) *Workflows {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Workflows{api: api, bus: bus}
}

// Bus returns the bus outcomes are published on.
func (w *Workflows) Bus() *events.Bus {
	return w.bus
}

// BaseURL returns the service root the workflows talk to.
func (w *Workflows) BaseURL() string {
	return w.api.BaseURL()
}

// Connection is the result of the connectivity check.
type Connection int

const (
	Unknown Connection = iota
	Connected
	Disconnected
)

func (c Connection) String() string {
	switch c {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Checking..."
	}
}

// Status checks the listing endpoint. It is display-only and gates nothing.
func (w *Workflows) Status(ctx context.Context) Connection {
	conn := Connected
	if err := w.api.Health(ctx); err != nil {
		conn = Disconnected
	}
	w.bus.PublishWithData(events.EventStatusChecked, NameStatus, map[string]interface{}{
		"connection": conn.String(),
		"url":        w.api.BaseURL(),
	})
	return conn
}

// AddView is the add workflow's state: its input and the latest outcome.
type AddView struct {
	Input  string `json:"input"`
	Notice Notice `json:"notice"`
	LastID string `json:"id,omitempty"`
}

// Clear empties the input without contacting the service.
func (v AddView) Clear() AddView {
	return AddView{}
}

// Add stores the trimmed input. On success the input is cleared; on failure it
// is kept so the user can re-trigger the action.
func (w *Workflows) Add(ctx context.Context, v AddView) AddView {
	text, err := Validate(v.Input)
	if err != nil {
		w.rejected(NameAdd)
		v.Notice = warning(msgAddEmpty)
		return v
	}

	id, err := w.api.Ingest(ctx, text)
	if err != nil {
		w.failed(NameAdd, err)
		v.Notice = w.failure(msgAddFailed, err)
		return v
	}

	w.bus.PublishWithData(events.EventMemoryStored, NameAdd, map[string]interface{}{
		"id":    id,
		"chars": len([]rune(text)),
	})
	return AddView{
		Notice: success(fmt.Sprintf(msgAddStored, id)),
		LastID: id,
	}
}

// SearchView is the search workflow's state.
type SearchView struct {
	Input   string   `json:"query"`
	Results []string `json:"results"`
	Notice  Notice   `json:"notice"`
}

// Search runs a context search for the trimmed input with TopK. Results keep
// the service's order. The input is not cleared.
func (w *Workflows) Search(ctx context.Context, v SearchView) SearchView {
	query, err := Validate(v.Input)
	if err != nil {
		w.rejected(NameSearch)
		return SearchView{Input: v.Input, Notice: warning(msgSearchEmpty)}
	}

	results, err := w.api.Search(ctx, query, TopK)
	if err != nil {
		w.failed(NameSearch, err)
		return SearchView{Input: v.Input, Notice: w.failure(msgSearchFailed, err)}
	}

	w.bus.PublishWithData(events.EventSearchCompleted, NameSearch, map[string]interface{}{
		"results": len(results),
	})
	next := SearchView{Input: v.Input, Results: results}
	if len(results) == 0 {
		next.Notice = info(msgNoResults)
	}
	return next
}

// ManageView is the manage workflow's state: the latest listing and the
// notices produced by the last action. Total is the number of documents the
// service reported, which exceeds len(Memories) when ids are missing.
type ManageView struct {
	Memories []memory.Memory `json:"memories"`
	Total    int             `json:"total"`
	Loaded   bool            `json:"loaded"`
	Notices  []Notice        `json:"notices,omitempty"`
}

// Empty reports whether a listing was fetched and holds nothing.
func (v ManageView) Empty() bool {
	return v.Loaded && len(v.Memories) == 0
}

// Failed reports whether any notice of the last action is a failure.
func (v ManageView) Failed() bool {
	for _, n := range v.Notices {
		if n.Failed() {
			return true
		}
	}
	return false
}

// Refresh fetches the full listing and replaces the view with it.
func (w *Workflows) Refresh(ctx context.Context) ManageView {
	listing, err := w.api.ListAll(ctx)
	if err != nil {
		w.failed(NameManage, err)
		return ManageView{Notices: []Notice{w.failure(msgListFailed, err)}}
	}

	w.bus.PublishWithData(events.EventListingFetched, NameManage, map[string]interface{}{
		"documents": len(listing.Documents),
		"ids":       len(listing.IDs),
	})
	if !listing.Consistent() {
		w.bus.PublishWithData(events.EventListingInconsistent, NameManage, map[string]interface{}{
			"documents": len(listing.Documents),
			"ids":       len(listing.IDs),
		})
	}
	return ManageView{Memories: listing.Memories(), Total: len(listing.Documents), Loaded: true}
}

// Delete removes id and, on success, re-fetches the listing. On failure the
// current listing is kept unchanged.
func (w *Workflows) Delete(ctx context.Context, v ManageView, id string) ManageView {
	id, err := Validate(id)
	if err != nil {
		w.rejected(NameManage)
		v.Notices = []Notice{warning(msgDeleteEmpty)}
		return v
	}

	if err := w.api.Delete(ctx, id); err != nil {
		w.failed(NameManage, err)
		v.Notices = []Notice{w.failure(msgDeleteFailed, err)}
		return v
	}

	w.bus.PublishWithData(events.EventMemoryDeleted, NameManage, map[string]interface{}{
		"id": id,
	})
	next := w.Refresh(ctx)
	next.Notices = append([]Notice{success(msgDeleted)}, next.Notices...)
	return next
}

func (w *Workflows) failure(generic string, err error) Notice {
	if client.IsUnreachable(err) {
		return failure(generic + " " + fmt.Sprintf(msgUnreachable, w.api.BaseURL()))
	}
	return failure(generic)
}

func (w *Workflows) rejected(workflow string) {
	w.bus.PublishWithData(events.EventValidationRejected, workflow, nil)
}

func (w *Workflows) failed(workflow string, err error) {
	data := map[string]interface{}{"error": err.Error()}
	var ce *client.Error
	if errors.As(err, &ce) {
		data["op"] = ce.Op
		data["status"] = ce.StatusCode
	}
	w.bus.PublishWithData(events.EventRequestFailed, workflow, data)
}
