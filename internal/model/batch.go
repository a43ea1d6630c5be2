package model

// URLStatus is the terminal state of one URL in a batch.
type URLStatus string

// URL states. Every URL starts pending and ends succeeded or failed.
const (
	URLPending   URLStatus = "pending"
	URLSucceeded URLStatus = "succeeded"
	URLFailed    URLStatus = "failed"
)

// URLResult records the outcome for one URL in a batch.
type URLResult struct {
	URL    string    `json:"url"`
	Status URLStatus `json:"status"`
	Stage  string    `json:"stage,omitempty"` // failing pipeline stage
	Error  string    `json:"error,omitempty"`
}

// BatchSummary is the result of a batch run, keyed by URL in file order.
type BatchSummary struct {
	JobID     string      `json:"job_id"`
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Results   []URLResult `json:"results"`
}
