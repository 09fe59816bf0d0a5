package fit

import (
	"encoding/json"
	"errors"
)

// Response is the scorer's success body.
type Response struct {
	PredictedFit  string             `json:"predicted_fit"`
	Probabilities map[string]float64 `json:"probabilities"`
	ModelUsed     string             `json:"model_used,omitempty"`
}

// Label parses PredictedFit.
func (r Response) Label() Label { return ParseLabel(r.PredictedFit) }

// Probability returns the probability of the predicted label, zero when absent.
func (r Response) Probability() float64 { return r.Probabilities[r.PredictedFit] }

// Result holds either a successful prediction with its confidence tier or a
// classified failure. The zero value is not a valid Result; use Succeeded or
// Failed.
type Result struct {
	response   *Response
	confidence ConfidenceTier
	err        *Error
}

// Succeeded wraps a response, deriving its confidence tier.
func Succeeded(resp Response) Result {
	return Result{
		response:   &resp,
		confidence: ClassifyConfidence(resp.Probabilities, resp.PredictedFit),
	}
}

// Failed wraps a classified failure. A nil error becomes an unknown_error.
func Failed(err *Error) Result {
	if err == nil {
		err = newUnknownError(nil)
	}
	return Result{err: err}
}

func (r Result) OK() bool { return r.response != nil }

// Success returns the response and tier when the call succeeded.
func (r Result) Success() (Response, ConfidenceTier, bool) {
	if r.response == nil {
		return Response{}, "", false
	}
	return *r.response, r.confidence, true
}

// Failure returns the classified error when the call failed.
func (r Result) Failure() (*Error, bool) {
	if r.response != nil {
		return nil, false
	}
	if r.err == nil {
		return newUnknownError(nil), true
	}
	return r.err, true
}

// Err returns the failure as an error, nil on success.
func (r Result) Err() error {
	if e, failed := r.Failure(); failed {
		return e
	}
	return nil
}

type resultJSON struct {
	Success    bool           `json:"success"`
	Data       *Response      `json:"data,omitempty"`
	Confidence ConfidenceTier `json:"confidence,omitempty"`
	Error      *Error         `json:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if resp, tier, ok := r.Success(); ok {
		return json.Marshal(resultJSON{Success: true, Data: &resp, Confidence: tier})
	}
	e, _ := r.Failure()
	return json.Marshal(resultJSON{Success: false, Error: e})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Success {
		if raw.Data == nil {
			return errors.New("successful result without data")
		}
		*r = Succeeded(*raw.Data)
		return nil
	}
	*r = Failed(raw.Error)
	return nil
}
