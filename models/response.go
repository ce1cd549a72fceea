package models

// Response is the envelope returned by every catalog operation. Result is an
// array even for single items and null when there is nothing to return.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  []T    `json:"result"`
}
