package http_controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/horockey/go-toolbox/http_helpers"
	"github.com/horockey/ibp/internal/controller/http_controller/dto"
	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/processor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	HeaderAPIKey    = "X-Api-Key"
	HeaderAdminKey  = "X-Admin-Key"
	HeaderAccount   = "X-Account"
	HeaderRequestID = "X-Request-Id"
)

type HttpController struct {
	serv     *http.Server
	apiKey   string
	adminKey string
	proc     *processor.Processor
	logger   zerolog.Logger
	metrics  *metrics
}

func New(
	addr string,
	apiKey string,
	adminKey string,
	logger zerolog.Logger,
) *HttpController {
	ctrl := HttpController{
		serv: &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: time.Second * 5, //nolint: mnd
		},
		apiKey:   apiKey,
		adminKey: adminKey,
		logger:   logger,
		metrics:  newMetrics(),
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})

	router.HandleFunc("/actions/{kind}", ctrl.postActionHandler).Methods(http.MethodPost)

	router.HandleFunc("/services", ctrl.getServicesHandler).Methods(http.MethodGet)
	router.HandleFunc("/services/{id}", ctrl.getServiceHandler).Methods(http.MethodGet)
	router.HandleFunc("/members/{account}", ctrl.getMemberHandler).Methods(http.MethodGet)
	router.HandleFunc("/member-services", ctrl.getMemberServicesHandler).Methods(http.MethodGet)
	router.HandleFunc("/member-services/{id}", ctrl.getMemberServiceHandler).Methods(http.MethodGet)
	router.HandleFunc("/monitors/{account}", ctrl.getMonitorHandler).Methods(http.MethodGet)
	router.HandleFunc("/health-checks/{member_service_id}/{account}", ctrl.getHealthChecksHandler).Methods(http.MethodGet)
	router.HandleFunc("/balances/{account}", ctrl.getBalanceHandler).Methods(http.MethodGet)
	router.HandleFunc("/events", ctrl.getEventsHandler).Methods(http.MethodGet)
	router.HandleFunc("/digest", ctrl.getDigestHandler).Methods(http.MethodGet)

	router.Use(ctrl.requestIDMW, ctrl.metricsMW, ctrl.authMW)

	ctrl.serv.Handler = router

	return &ctrl
}

func (ctrl *HttpController) Metrics() []prometheus.Collector {
	return ctrl.metrics.list()
}

// Handler binds the controller to pr and returns its router without serving it.
func (ctrl *HttpController) Handler(pr *processor.Processor) http.Handler {
	ctrl.proc = pr
	return ctrl.serv.Handler
}

func (ctrl *HttpController) Start(ctx context.Context, pr *processor.Processor) (resErr error) {
	ctrl.proc = pr
	var wg sync.WaitGroup
	defer wg.Wait()

	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ctrl.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.Canceled) {
			resErr = errors.Join(resErr, fmt.Errorf("running context: %w", ctx.Err()))
		}

		sdCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := ctrl.serv.Shutdown(sdCtx); err != nil {
			resErr = errors.Join(resErr, fmt.Errorf("shutting down server: %w", err))
		}
		return resErr

	case err := <-errCh:
		return fmt.Errorf("running server: %w", err)
	}
}

func (ctrl *HttpController) requestIDMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			req.Header.Set(HeaderRequestID, id)
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, req)
	})
}

func (ctrl *HttpController) metricsMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctrl.metrics.requestsCnt.Inc()
		defer func(ts time.Time) {
			ctrl.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
		}(time.Now())
		next.ServeHTTP(w, req)
	})
}

func (ctrl *HttpController) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get(HeaderAPIKey) != ctrl.apiKey {
			ctrl.metrics.errResponsesCnt.WithLabelValues(dto.CodeUnauthorized).Inc()
			_ = http_helpers.RespondWithErr(w, http.StatusForbidden, errors.New("invalid api key"))
			return
		}
		next.ServeHTTP(w, req)
	})
}

// origin builds the action origin from request headers. A matching admin key
// wins over an account header; anything else is an unsigned origin.
func (ctrl *HttpController) origin(req *http.Request) model.Origin {
	if key := req.Header.Get(HeaderAdminKey); key != "" && ctrl.adminKey != "" && key == ctrl.adminKey {
		return model.RootOrigin()
	}
	if acc := req.Header.Get(HeaderAccount); acc != "" {
		return model.SignedOrigin(model.AccountID(acc))
	}
	return model.NoneOrigin()
}

func (ctrl *HttpController) reqLogger(req *http.Request) zerolog.Logger {
	return ctrl.logger.With().
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Str("path", req.URL.Path).
		Logger()
}

func pathUint32(req *http.Request, name string) (uint32, error) {
	raw := mux.Vars(req)[name]
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", model.InvalidInputError{Field: name}, err)
	}
	return uint32(v), nil
}

func queryUint(req *http.Request, name string, bits int) (uint64, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", model.InvalidInputError{Field: name}, err)
	}
	return v, nil
}
