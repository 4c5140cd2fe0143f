package dto

import "time"

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

func NewErrorResponse(err error) BasicResponse {
	return NewBasicResponse(false, err.Error())
}

// CreatedResponse carries a created row. Drift is set when the row exists
// but the author's post index could not be updated yet.
type CreatedResponse[T any] struct {
	Post  T    `json:"post"`
	Drift bool `json:"drift"`
}
