package http_controller

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/horockey/ibp/internal/controller/http_controller/dto"
	"github.com/horockey/ibp/internal/model"
	"github.com/samber/lo"
)

const maxActionBodyBytes = 1 << 16

func (ctrl *HttpController) postActionHandler(w http.ResponseWriter, req *http.Request) {
	logger := ctrl.reqLogger(req)
	kind := model.ActionKind(mux.Vars(req)["kind"])

	body, err := io.ReadAll(io.LimitReader(req.Body, maxActionBodyBytes))
	if err != nil {
		ctrl.respondErr(w, logger, fmt.Errorf("reading body: %w", err))
		return
	}

	act, err := dto.DecodeAction(kind, body)
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}

	rcpt, err := ctrl.proc.Dispatch(model.Call{Origin: ctrl.origin(req), Action: act})
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}

	dtoRcpt, err := dto.NewReceipt(rcpt)
	if err != nil {
		ctrl.respondErr(w, logger, fmt.Errorf("converting receipt to dto: %w", err))
		return
	}

	ctrl.respondOK(w, dtoRcpt)
}

func (ctrl *HttpController) getServicesHandler(w http.ResponseWriter, req *http.Request) {
	svcs, err := ctrl.proc.Services()
	if err != nil {
		ctrl.respondErr(w, ctrl.reqLogger(req), fmt.Errorf("getting services from proc: %w", err))
		return
	}
	ctrl.respondOK(w, lo.Map(svcs, func(svc model.Service, _ int) dto.Service {
		return dto.NewService(svc)
	}))
}

func (ctrl *HttpController) getServiceHandler(w http.ResponseWriter, req *http.Request) {
	logger := ctrl.reqLogger(req)

	id, err := pathUint32(req, "id")
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}

	svc, err := ctrl.proc.Service(model.ServiceID(id))
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}
	ctrl.respondOK(w, dto.NewService(svc))
}

func (ctrl *HttpController) getMemberHandler(w http.ResponseWriter, req *http.Request) {
	m, err := ctrl.proc.Member(model.AccountID(mux.Vars(req)["account"]))
	if err != nil {
		ctrl.respondErr(w, ctrl.reqLogger(req), err)
		return
	}
	ctrl.respondOK(w, dto.NewMember(m))
}

func (ctrl *HttpController) getMemberServicesHandler(w http.ResponseWriter, req *http.Request) {
	mss, err := ctrl.proc.MemberServices()
	if err != nil {
		ctrl.respondErr(w, ctrl.reqLogger(req), fmt.Errorf("getting member services from proc: %w", err))
		return
	}
	ctrl.respondOK(w, lo.Map(mss, func(ms model.MemberService, _ int) dto.MemberService {
		return dto.NewMemberService(ms)
	}))
}

func (ctrl *HttpController) getMemberServiceHandler(w http.ResponseWriter, req *http.Request) {
	logger := ctrl.reqLogger(req)

	id, err := pathUint32(req, "id")
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}

	ms, err := ctrl.proc.MemberService(model.MemberServiceID(id))
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}
	ctrl.respondOK(w, dto.NewMemberService(ms))
}

func (ctrl *HttpController) getMonitorHandler(w http.ResponseWriter, req *http.Request) {
	m, err := ctrl.proc.Monitor(model.AccountID(mux.Vars(req)["account"]))
	if err != nil {
		ctrl.respondErr(w, ctrl.reqLogger(req), err)
		return
	}
	ctrl.respondOK(w, dto.NewMonitor(m))
}

func (ctrl *HttpController) getHealthChecksHandler(w http.ResponseWriter, req *http.Request) {
	logger := ctrl.reqLogger(req)

	id, err := pathUint32(req, "member_service_id")
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}

	checks, err := ctrl.proc.HealthChecks(model.MemberServiceID(id), model.AccountID(mux.Vars(req)["account"]))
	if err != nil {
		ctrl.respondErr(w, logger, fmt.Errorf("getting health checks from proc: %w", err))
		return
	}
	ctrl.respondOK(w, lo.Map(checks, func(hc model.HealthCheck, _ int) dto.HealthCheck {
		return dto.NewHealthCheck(hc)
	}))
}

func (ctrl *HttpController) getBalanceHandler(w http.ResponseWriter, req *http.Request) {
	acc := model.AccountID(mux.Vars(req)["account"])

	amount, err := ctrl.proc.Balance(acc)
	if err != nil {
		ctrl.respondErr(w, ctrl.reqLogger(req), fmt.Errorf("getting balance from proc: %w", err))
		return
	}
	ctrl.respondOK(w, dto.NewBalance(acc, amount))
}

func (ctrl *HttpController) getEventsHandler(w http.ResponseWriter, req *http.Request) {
	logger := ctrl.reqLogger(req)

	from, err := queryUint(req, "from", 64)
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}
	limit, err := queryUint(req, "limit", 31)
	if err != nil {
		ctrl.respondErr(w, logger, err)
		return
	}

	recs, err := ctrl.proc.Events(from, int(limit))
	if err != nil {
		ctrl.respondErr(w, logger, fmt.Errorf("getting events from proc: %w", err))
		return
	}

	evs := make([]dto.Event, 0, len(recs))
	for _, rec := range recs {
		ev, err := dto.NewEvent(rec)
		if err != nil {
			ctrl.respondErr(w, logger, fmt.Errorf("converting event to dto: %w", err))
			return
		}
		evs = append(evs, ev)
	}
	ctrl.respondOK(w, evs)
}

func (ctrl *HttpController) getDigestHandler(w http.ResponseWriter, req *http.Request) {
	digest, err := ctrl.proc.Digest()
	if err != nil {
		ctrl.respondErr(w, ctrl.reqLogger(req), err)
		return
	}
	ctrl.respondOK(w, dto.Digest{Digest: digest})
}
