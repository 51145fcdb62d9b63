package cli

import (
	"context"
	"errors"

	"github.com/piwi3910/ShelfPlan/internal/engine"
	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/piwi3910/ShelfPlan/internal/planogram"
	"github.com/piwi3910/ShelfPlan/internal/project"
)

// workspace is a rack and catalog resolved from a fill plan or a template.
type workspace struct {
	plan    *project.Plan // nil when opened from a template
	store   model.TemplateStore
	rack    model.RackConfig
	catalog model.Catalog
}

// openPlan loads a fill plan with its rack and catalog.
func (e *env) openPlan(ctx context.Context, path string) (*workspace, error) {
	plan, err := project.LoadPlan(path)
	if err != nil {
		return nil, err
	}
	store, err := e.templates()
	if err != nil {
		return nil, err
	}
	rack, err := plan.ResolveRack(store)
	if err != nil {
		return nil, err
	}
	if err := rack.Validate(); err != nil {
		loggerFromContext(ctx).Warn("rack configuration is inconsistent", "template", plan.Template, "err", err)
	}
	catalog, err := e.catalog(ctx, plan.CatalogPath())
	if err != nil {
		return nil, err
	}
	return &workspace{plan: plan, store: store, rack: rack, catalog: catalog}, nil
}

// openTemplate loads a template by ID or name, or the configured default
// template when ref is empty.
func (e *env) openTemplate(ctx context.Context, ref string) (*workspace, error) {
	if ref == "" {
		config, err := e.appConfig()
		if err != nil {
			return nil, err
		}
		ref = config.DefaultTemplateID
	}
	store, err := e.templates()
	if err != nil {
		return nil, err
	}
	plan := &project.Plan{Template: ref}
	rack, err := plan.ResolveRack(store)
	if err != nil {
		return nil, err
	}
	catalog, err := e.catalog(ctx, "")
	if err != nil {
		return nil, err
	}
	return &workspace{store: store, rack: rack, catalog: catalog}, nil
}

func (w *workspace) requests() [][]string {
	if w.plan == nil {
		return nil
	}
	return w.plan.Requests()
}

// fill drops the workspace's requests on a fresh planogram in order and
// collects the drops it refused.
func (w *workspace) fill(ctx context.Context) (*planogram.Planogram, []engine.Drop) {
	p := planogram.New(w.rack, planogram.WithLogger(loggerFromContext(ctx)))

	var rejected []engine.Drop
	for shelfIdx, ids := range w.requests() {
		for _, id := range ids {
			if _, err := p.AddPlacement(shelfIdx, id, w.catalog); err != nil {
				rejected = append(rejected, engine.Drop{ShelfIndex: shelfIdx, ProductID: id, Reason: dropReason(err)})
			}
		}
	}
	return p, rejected
}

// dropReason turns an AddPlacement error into the reason shown to users.
func dropReason(err error) string {
	var rejection *planogram.RejectionError
	switch {
	case errors.As(err, &rejection):
		return rejection.Fit.Reason
	case errors.Is(err, planogram.ErrShelfOutOfRange):
		return "rack has no such shelf"
	case errors.Is(err, planogram.ErrUnknownProduct):
		return "unknown product"
	default:
		return err.Error()
	}
}
