package entity

import "time"

// APILog represents one request to the signing API and its response
type APILog struct {
	ID           int64     `json:"id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestBody  string    `json:"request_body"`
	ResponseBody string    `json:"response_body"`
	StatusCode   int       `json:"status_code"`
	Duration     int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsError reports whether the call ended outside the success status set
func (l *APILog) IsError() bool {
	return l.StatusCode != 200 && l.StatusCode != 201 && l.StatusCode != 204
}
