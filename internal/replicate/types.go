package replicate

import "encoding/json"

// Prediction statuses reported by the API.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// PredictionRequest is the body of POST /predictions.
type PredictionRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

// Prediction is the subset of the prediction resource this client reads.
type Prediction struct {
	ID      string          `json:"id"`
	Version string          `json:"version"`
	Status  string          `json:"status"`
	Output  json.RawMessage `json:"output"`
	Error   json.RawMessage `json:"error"`
	Logs    string          `json:"logs"`
	URLs    PredictionURLs  `json:"urls"`
}

type PredictionURLs struct {
	Get    string `json:"get"`
	Cancel string `json:"cancel"`
}

// Done reports whether the prediction reached a terminal status.
func (p *Prediction) Done() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Output is the tagging model's result. Both fields hold comma-separated tags.
type Output struct {
	JSONData struct {
		Tags string `json:"tags"`
	} `json:"json_data"`
	Tags string `json:"tags"`
}

// apiError is the problem document returned on non-2xx responses.
type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}
