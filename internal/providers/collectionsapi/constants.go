package collectionsapi

import "time"

const (
	providerName = "collectionsapi"

	defaultBaseURL     = "http://localhost:4000/api"
	defaultHTTPTimeout = 10 * time.Second

	collectionPath = "/user/collection"
	removePath     = "/user/collection/remove"

	// Error bodies larger than this are truncated before being surfaced.
	maxErrorBody = 512

	unreachableMessage = "The collection source could not be reached."
)
