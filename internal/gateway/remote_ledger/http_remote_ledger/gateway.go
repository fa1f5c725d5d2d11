package http_remote_ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/horockey/ibp/internal/controller/http_controller"
	controller_dto "github.com/horockey/ibp/internal/controller/http_controller/dto"
	"github.com/horockey/ibp/internal/gateway/remote_ledger"
	"github.com/horockey/ibp/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var _ remote_ledger.Gateway = &httpRemoteLedger{}

type httpRemoteLedger struct {
	cl       *resty.Client
	adminKey string
	metrics  *metrics
	logger   zerolog.Logger
}

// New returns a gateway to the node at baseURL. adminKey is only needed
// to submit actions under the root origin.
func New(
	baseURL string,
	apiKey string,
	adminKey string,
	timeout time.Duration,
	logger zerolog.Logger,
) *httpRemoteLedger {
	return &httpRemoteLedger{
		adminKey: adminKey,
		metrics:  newMetrics(),
		logger:   logger,
		cl: resty.New().
			SetBaseURL(baseURL).
			SetHeader(http_controller.HeaderAPIKey, apiKey).
			SetTimeout(timeout).
			SetRetryCount(0),
	}
}

func (gw *httpRemoteLedger) Metrics() []prometheus.Collector {
	return gw.metrics.list()
}

func (gw *httpRemoteLedger) Submit(
	ctx context.Context,
	origin model.Origin,
	action model.Action,
) (res model.Receipt, resErr error) {
	defer gw.observe("submit", time.Now(), &resErr)

	if action == nil {
		return model.Receipt{}, model.InvalidInputError{Field: "action"}
	}
	gw.logger.Debug().Str("action", string(action.Kind())).Msg("submitting action to remote")

	req := gw.cl.R().
		SetPathParam("kind", string(action.Kind())).
		SetHeader("Content-Type", "application/json").
		SetBody(action)
	switch {
	case origin.Root:
		req.SetHeader(http_controller.HeaderAdminKey, gw.adminKey)
	case origin.IsSigned():
		req.SetHeader(http_controller.HeaderAccount, string(origin.Signer))
	}

	rcpt, err := do[controller_dto.Receipt](ctx, req, http.MethodPost, "/actions/{kind}")
	if err != nil {
		return model.Receipt{}, err
	}

	res, err = controller_dto.ReceiptToModel(rcpt)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("converting dto receipt to model: %w", err)
	}
	return res, nil
}

func (gw *httpRemoteLedger) Service(ctx context.Context, id model.ServiceID) (res model.Service, resErr error) {
	defer gw.observe("service", time.Now(), &resErr)

	svc, err := do[controller_dto.Service](
		ctx,
		gw.cl.R().SetPathParam("id", strconv.FormatUint(uint64(id), 10)),
		http.MethodGet,
		"/services/{id}",
	)
	if err != nil {
		return model.Service{}, err
	}
	return controller_dto.ServiceToModel(svc), nil
}

func (gw *httpRemoteLedger) Services(ctx context.Context) (res []model.Service, resErr error) {
	defer gw.observe("services", time.Now(), &resErr)

	svcs, err := do[[]controller_dto.Service](ctx, gw.cl.R(), http.MethodGet, "/services")
	if err != nil {
		return nil, err
	}
	return lo.Map(svcs, func(svc controller_dto.Service, _ int) model.Service {
		return controller_dto.ServiceToModel(svc)
	}), nil
}

func (gw *httpRemoteLedger) Member(ctx context.Context, account model.AccountID) (res model.Member, resErr error) {
	defer gw.observe("member", time.Now(), &resErr)

	m, err := do[controller_dto.Member](
		ctx,
		gw.cl.R().SetPathParam("account", string(account)),
		http.MethodGet,
		"/members/{account}",
	)
	if err != nil {
		return model.Member{}, err
	}
	return controller_dto.MemberToModel(m), nil
}

func (gw *httpRemoteLedger) MemberService(ctx context.Context, id model.MemberServiceID) (res model.MemberService, resErr error) {
	defer gw.observe("member_service", time.Now(), &resErr)

	ms, err := do[controller_dto.MemberService](
		ctx,
		gw.cl.R().SetPathParam("id", strconv.FormatUint(uint64(id), 10)),
		http.MethodGet,
		"/member-services/{id}",
	)
	if err != nil {
		return model.MemberService{}, err
	}
	return controller_dto.MemberServiceToModel(ms), nil
}

func (gw *httpRemoteLedger) MemberServices(ctx context.Context) (res []model.MemberService, resErr error) {
	defer gw.observe("member_services", time.Now(), &resErr)

	mss, err := do[[]controller_dto.MemberService](ctx, gw.cl.R(), http.MethodGet, "/member-services")
	if err != nil {
		return nil, err
	}
	return lo.Map(mss, func(ms controller_dto.MemberService, _ int) model.MemberService {
		return controller_dto.MemberServiceToModel(ms)
	}), nil
}

func (gw *httpRemoteLedger) Monitor(ctx context.Context, account model.AccountID) (res model.Monitor, resErr error) {
	defer gw.observe("monitor", time.Now(), &resErr)

	m, err := do[controller_dto.Monitor](
		ctx,
		gw.cl.R().SetPathParam("account", string(account)),
		http.MethodGet,
		"/monitors/{account}",
	)
	if err != nil {
		return model.Monitor{}, err
	}
	return controller_dto.MonitorToModel(m), nil
}

func (gw *httpRemoteLedger) HealthChecks(
	ctx context.Context,
	id model.MemberServiceID,
	monitor model.AccountID,
) (res []model.HealthCheck, resErr error) {
	defer gw.observe("health_checks", time.Now(), &resErr)

	checks, err := do[[]controller_dto.HealthCheck](
		ctx,
		gw.cl.R().
			SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
			SetPathParam("account", string(monitor)),
		http.MethodGet,
		"/health-checks/{id}/{account}",
	)
	if err != nil {
		return nil, err
	}
	return lo.Map(checks, func(hc controller_dto.HealthCheck, _ int) model.HealthCheck {
		return controller_dto.HealthCheckToModel(hc)
	}), nil
}

func (gw *httpRemoteLedger) Balance(ctx context.Context, account model.AccountID) (res *big.Int, resErr error) {
	defer gw.observe("balance", time.Now(), &resErr)

	bal, err := do[controller_dto.Balance](
		ctx,
		gw.cl.R().SetPathParam("account", string(account)),
		http.MethodGet,
		"/balances/{account}",
	)
	if err != nil {
		return nil, err
	}

	res, err = controller_dto.BalanceToModel(bal)
	if err != nil {
		return nil, fmt.Errorf("converting dto balance to model: %w", err)
	}
	return res, nil
}

func (gw *httpRemoteLedger) Events(ctx context.Context, from uint64, limit int) (res []model.EventRecord, resErr error) {
	defer gw.observe("events", time.Now(), &resErr)

	req := gw.cl.R().SetQueryParam("from", strconv.FormatUint(from, 10))
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	evs, err := do[[]controller_dto.Event](ctx, req, http.MethodGet, "/events")
	if err != nil {
		return nil, err
	}

	res = make([]model.EventRecord, 0, len(evs))
	for _, ev := range evs {
		rec, err := controller_dto.EventToModel(ev)
		if err != nil {
			return nil, fmt.Errorf("converting dto event to model: %w", err)
		}
		res = append(res, rec)
	}
	return res, nil
}

func (gw *httpRemoteLedger) Digest(ctx context.Context) (res string, resErr error) {
	defer gw.observe("digest", time.Now(), &resErr)

	d, err := do[controller_dto.Digest](ctx, gw.cl.R(), http.MethodGet, "/digest")
	if err != nil {
		return "", err
	}
	return d.Digest, nil
}

func (gw *httpRemoteLedger) observe(op string, ts time.Time, resErr *error) {
	gw.metrics.requestsCnt.WithLabelValues(op).Inc()
	gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

	switch *resErr {
	case nil:
		gw.metrics.successProcessCnt.Inc()
	default:
		gw.metrics.errProcessCnt.Inc()
	}
}

func do[T any](ctx context.Context, req *resty.Request, method string, url string) (T, error) {
	var res T

	resp, err := req.SetContext(ctx).Execute(method, url)
	if err != nil {
		return res, fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return res, responseErr(resp)
	}

	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return res, fmt.Errorf("unmarshaling json: %w", err)
	}
	return res, nil
}

// responseErr restores the typed error the node answered with.
func responseErr(resp *resty.Response) error {
	body := controller_dto.Error{}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Code == "" {
		return fmt.Errorf("got non-ok response (%s): %s", resp.Status(), resp.String())
	}
	if body.Code == controller_dto.CodeInternal {
		return fmt.Errorf("got non-ok response (%s): %w", resp.Status(), controller_dto.ErrorToModel(body))
	}
	return controller_dto.ErrorToModel(body)
}
