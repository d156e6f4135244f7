package models

import "fmt"

// CrawlResponse is the JSON envelope exchanged between the API and its clients.
type CrawlResponse struct {
	Success bool     `json:"success"`
	Data    *Success `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ToResponse wraps an outcome in the wire envelope.
func ToResponse(o CrawlOutcome) CrawlResponse {
	switch v := o.(type) {
	case *Success:
		return CrawlResponse{Success: true, Data: v}
	case *Failure:
		return CrawlResponse{Success: false, Error: v.Reason}
	default:
		return CrawlResponse{Success: false, Error: fmt.Sprintf("unknown outcome %T", o)}
	}
}

// Outcome converts the envelope back into a CrawlOutcome.
// A response flagged successful but missing data is treated as a failure.
func (r CrawlResponse) Outcome() CrawlOutcome {
	if r.Success && r.Data != nil {
		return r.Data
	}
	if r.Success {
		return &Failure{Reason: "response contained no data"}
	}
	return &Failure{Reason: r.Error}
}
