package commands

import (
	"context"
	"flag"
	"slices"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

// viewFlags selects the view that numeric refs and listings work on.
type viewFlags struct {
	status   string
	priority string
}

func (v *viewFlags) register(fs *flag.FlagSet, withPriority bool) {
	fs.StringVar(&v.status, "status", "", "")
	fs.StringVar(&v.status, "s", "", "")
	if withPriority {
		fs.StringVar(&v.priority, "priority", "", "")
		fs.StringVar(&v.priority, "p", "", "")
	}
}

// filter resolves the flags against the configured defaults. A non-empty
// fallback replaces default_status for commands with a natural tab of their own.
func (v *viewFlags) filter(cfg *config.Config, fallback service.Status) (store.Filter, error) {
	status := fallback
	if v.status != "" || fallback == "" {
		raw := v.status
		if raw == "" {
			raw = cfg.DefaultStatus
		}
		if raw == "" {
			raw = config.DefaultStatus
		}
		s, err := service.ParseStatus(raw)
		if err != nil {
			return store.Filter{}, userErrorf("%v", err)
		}
		status = s
	}

	raw := v.priority
	if raw == "" {
		raw = cfg.DefaultPriority
	}
	priority, err := service.ParsePriority(raw)
	if err != nil {
		return store.Filter{}, userErrorf("%v", err)
	}
	return store.Filter{Status: status, Priority: priority}, nil
}

// lookup is a refreshed store plus the task a ref points at.
type lookup struct {
	store *store.Store
	view  []service.Task
	index int // position of task in view, -1 when a #ID ref is outside the view
	task  service.Task
}

// resolveTask refreshes the store and finds ref. Positions count within
// the filtered view. IDs are looked up across every task.
func resolveTask(ctx context.Context, svc service.Service, ref TaskRef, f store.Filter) (lookup, error) {
	st := store.New(svc)
	if _, err := st.Refresh(ctx); err != nil {
		return lookup{}, err
	}
	view := st.ViewSlice(f)
	res := lookup{store: st, view: view, index: -1}

	if ref.ByID {
		task, ok := st.Find(ref.ID)
		if !ok {
			return lookup{}, userErrorf("task not found: #%d", ref.ID)
		}
		res.task = task
		res.index = slices.IndexFunc(view, func(t service.Task) bool { return t.ID == ref.ID })
		return res, nil
	}

	if ref.Num < 1 || ref.Num > len(view) {
		return lookup{}, userErrorf("task number out of range: %d", ref.Num)
	}
	res.index = ref.Num - 1
	res.task = view[res.index]
	return res, nil
}

// parseRef wraps ParseTaskRef errors as user errors.
func parseRef(args []string) (TaskRef, error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return TaskRef{}, userErrorf("%v", err)
	}
	return ref, nil
}
