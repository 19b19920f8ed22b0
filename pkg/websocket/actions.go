package websocket

// Action constants for WebSocket messages
const (
	ActionHealthCheck = "health.check"

	// Cache subscriptions
	ActionCacheSubscribe   = "cache.subscribe"
	ActionCacheUnsubscribe = "cache.unsubscribe"

	// Board and task actions
	ActionBoardList = "board.list"
	ActionTaskList  = "task.list"
	ActionTaskMove  = "task.move"

	// Notifications (server -> client)
	ActionCacheUpdated = "cache.updated"
	ActionDomainEvent  = "event"
)

// Error codes
const (
	ErrorCodeBadRequest    = "BAD_REQUEST"
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeInternalError = "INTERNAL_ERROR"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeUnknownAction = "UNKNOWN_ACTION"
)

// CacheSubscribeRequest is the payload of cache.subscribe and
// cache.unsubscribe.
type CacheSubscribeRequest struct {
	Keys []string `json:"keys"`
}

// CacheValues is the reply to cache.subscribe: the current value per key.
type CacheValues struct {
	Values map[string]interface{} `json:"values"`
}

// CacheUpdate is the payload of a cache.updated notification.
type CacheUpdate struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}
