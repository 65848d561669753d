package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrProvider  = "provider"
	AttrOperation = "op"
	AttrOutcome   = "outcome"
)

// Provider operations recorded by the instrumented provider.
const (
	OpFetchCollection = "fetch_collection"
	OpRemoveGame      = "remove_game"
)
