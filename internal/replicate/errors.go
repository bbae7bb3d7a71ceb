package replicate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/oukeidos/aitag/internal/apperrors"
)

func parseAPIError(body []byte) apiError {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return apiError{}
	}
	return e
}

// classifyStatus maps a non-2xx response onto an error kind.
// The upstream detail is kept only in the cause.
func classifyStatus(statusCode int, status string, details apiError) error {
	cause := fmt.Errorf("replicate status=%s title=%s detail=%s", status, details.Title, details.Detail)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.New(
			apperrors.KindAuth,
			fmt.Sprintf("Replicate authentication failed (%d): the API token is invalid or expired.", statusCode),
			cause,
		)
	case http.StatusTooManyRequests:
		return apperrors.New(
			apperrors.KindRateLimit,
			"Replicate rate limit exceeded (429): please try again later.",
			cause,
		)
	case http.StatusNotFound:
		return apperrors.New(
			apperrors.KindBadRequest,
			"Replicate model version not found (404).",
			cause,
		)
	case http.StatusUnprocessableEntity:
		return apperrors.New(
			apperrors.KindBadRequest,
			"Replicate rejected the prediction input (422).",
			cause,
		)
	default:
		if statusCode >= 500 {
			return apperrors.New(
				apperrors.KindTransient,
				fmt.Sprintf("Replicate server error (%d): please try again later.", statusCode),
				cause,
			)
		}
		return apperrors.New(
			apperrors.KindBadRequest,
			fmt.Sprintf("Replicate API error (%d).", statusCode),
			cause,
		)
	}
}

// predictionError describes a prediction that ended without output.
func predictionError(p *Prediction) error {
	msg := strings.Trim(strings.TrimSpace(string(p.Error)), `"`)
	if msg == "" || msg == "null" {
		msg = "no error detail"
	}
	cause := fmt.Errorf("prediction %s %s: %s", p.ID, p.Status, msg)
	if p.Status == StatusCanceled {
		return apperrors.New(apperrors.KindValidation, "Replicate prediction was canceled.", cause)
	}
	return apperrors.New(apperrors.KindValidation, "Replicate prediction failed.", cause)
}
