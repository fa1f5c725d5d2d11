package http_controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/horockey/go-toolbox/http_helpers"
	"github.com/horockey/ibp/internal/controller/http_controller/dto"
	"github.com/horockey/ibp/internal/processor"
	"github.com/rs/zerolog"
)

func (ctrl *HttpController) respondOK(w http.ResponseWriter, data any) {
	ctrl.metrics.okResponsesCnt.Inc()
	_ = http_helpers.RespondOK(w, data)
}

// respondErr writes err as a dto.Error. Rejections are expected outcomes and
// logged at info level, everything else is an error.
func (ctrl *HttpController) respondErr(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status, body := dto.NewError(err)
	ctrl.metrics.errResponsesCnt.WithLabelValues(body.Code).Inc()
	if processor.IsRejection(err) {
		logger.Info().Err(err).Int("status", status).Msg("request rejected")
	} else {
		logger.Error().Err(err).Send()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(fmt.Errorf("encoding error body: %w", err)).Send()
	}
}
