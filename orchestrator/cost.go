package orchestrator

import "github.com/studymesh/tutorcore/core"

// EstimateCost predicts the USD cost of serving the request with the
// adapter and model selection would pick. Budgeting aid only; not a
// billing guarantee.
func (o *Orchestrator) EstimateCost(req core.Request) (float64, error) {
	ranked := o.rank(req)
	if len(ranked) == 0 {
		return 0, core.NewError(core.ErrNoProvider, "orchestrator: no adapters registered")
	}
	adapter := ranked[0].adapter
	return adapter.EstimateCost(req, o.SelectModel(adapter, req)), nil
}
