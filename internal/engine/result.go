package engine

// Aggregate names a logical group of data whose change is reported to
// callers. The delivery layer maps these to refresh notifications; the
// engine itself never talks to presentation code.
type Aggregate string

const (
	AggregateParts          Aggregate = "parts"
	AggregateCategories     Aggregate = "categories"
	AggregateEquipment      Aggregate = "equipment"
	AggregateCounterparties Aggregate = "counterparties"
	AggregateOrders         Aggregate = "orders"
	AggregateReplacements   Aggregate = "replacements"
	AggregateKnives         Aggregate = "knives"
	AggregateTasks          Aggregate = "tasks"
)

// Result is the outcome of a single engine operation. Business-rule
// violations surface here with Success=false; only infrastructure
// failures propagate as errors. Data optionally carries the resulting
// state for operations whose callers need it back.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Changed []Aggregate `json:"changed,omitempty"`
}

// OK builds a successful result with the set of changed aggregates
func OK(message string, changed ...Aggregate) Result {
	return Result{Success: true, Message: message, Changed: changed}
}

// WithData attaches resulting state to the result
func (r Result) WithData(data interface{}) Result {
	r.Data = data
	return r
}

// Fail builds a failed result. No aggregates changed by definition.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// ChangedNames returns the changed aggregates as plain strings for
// event payloads and cache keys
func (r Result) ChangedNames() []string {
	names := make([]string, 0, len(r.Changed))
	for _, a := range r.Changed {
		names = append(names, string(a))
	}
	return names
}
