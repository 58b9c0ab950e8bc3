package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/leadcapture"
	"github.com/vfg2006/marketing-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/marketing-analytics-api/pkg/log"
)

func SubmitLead(service *leadcapture.LeadService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var lead domain.Lead
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			logger.WithField("error", err.Error()).Warn("leads: invalid submission payload")

			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "corpo da requisição inválido", nil)
			return
		}

		if err := service.Submit(r.Context(), lead); err != nil {
			if errors.Is(err, leadcapture.ErrThrottled) {
				logger.WithField("throttle_key", lead.ThrottleKey()).Info("leads: submission throttled")

				apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, err.Error(), nil)
				return
			}

			if validationErr := lead.Validate(); validationErr != nil {
				logger.WithField("error", validationErr.Error()).Warn("leads: invalid submission")

				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, validationErr.Error(), nil)
				return
			}

			logger.WithField("error", err.Error()).Error("leads: failed to deliver submission")

			apiErrors.WriteError(w, apiErrors.ErrCommunication, "não foi possível entregar a submissão", nil)
			return
		}

		logger.WithField("utm_source", lead.UTMSource).Info("leads: submission accepted")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
	})
}
