package entity

// ServerResult records the outcome of the last operation on an entity
type ServerResult struct {
	Success      bool   `json:"success"`
	StatusCode   int    `json:"status_code"`
	JSONContent  string `json:"json_content,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// QueryResult is a ServerResult carrying the decoded collection
type QueryResult[T any] struct {
	ServerResult
	Objects []T `json:"objects"`
}
