package ibp

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/horockey/go-toolbox/options"
	"github.com/horockey/ibp/internal/balances"
	"github.com/horockey/ibp/internal/controller/http_controller"
	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/processor"
	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/horockey/ibp/internal/repository/kv_state/badger_kv_state"
	"github.com/horockey/ibp/internal/repository/kv_state/inmemory_kv_state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Ledger is a single node of the registry: the state machine, its store
// and the HTTP controller serving it.
type Ledger struct {
	*processor.Processor
	state   kv_state.Repository
	rewards RewardIssuer
	ctrl    Controller
}

type createLedgerParams struct {
	badgerDir    string
	servicePort  int
	rewardAmount *big.Int
	testMode     bool
	logger       zerolog.Logger
	onEvent      EventHandler

	state    kv_state.Repository
	rewards  RewardIssuer
	verifier OriginVerifier
	ctrl     Controller
}

func defaultCreateLedgerParams() createLedgerParams {
	return createLedgerParams{
		servicePort:  7000, //nolint: mnd
		rewardAmount: big.NewInt(1),
		logger: zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("scope", "ibp_ledger").
			Logger(),
	}
}

// NewLedger builds a node. apiKey guards the HTTP API, adminKey grants the
// root origin to HTTP callers presenting it. Empty adminKey disables root over HTTP.
func NewLedger(
	apiKey string,
	adminKey string,
	opts ...options.Option[createLedgerParams],
) (*Ledger, error) {
	params := defaultCreateLedgerParams()
	if err := options.ApplyOptions(&params, opts...); err != nil {
		return nil, fmt.Errorf("applying opts: %w", err)
	}

	if params.state == nil {
		switch params.badgerDir {
		case "":
			params.state = inmemory_kv_state.New()
		default:
			st, err := badger_kv_state.Open(params.badgerDir)
			if err != nil {
				return nil, fmt.Errorf("opening badger state: %w", err)
			}
			params.state = st
		}
	}

	if params.rewards == nil {
		params.rewards = balances.New()
	}

	if params.ctrl == nil {
		params.ctrl = http_controller.New(
			"0.0.0.0:"+strconv.Itoa(params.servicePort),
			apiKey,
			adminKey,
			params.logger.With().Str("subscope", "http_controller").Logger(),
		)
	}

	proc := processor.New(
		params.state,
		params.rewards,
		params.verifier,
		params.rewardAmount,
		params.testMode,
		params.onEvent,
		params.logger,
	)

	return &Ledger{
		Processor: proc,
		state:     params.state,
		rewards:   params.rewards,
		ctrl:      params.ctrl,
	}, nil
}

// Start serves the controller until ctx is done.
func (l *Ledger) Start(ctx context.Context) error {
	l.Logger.Info().Msg("starting ledger node")

	if err := l.ctrl.Start(ctx, l.Processor); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("running controller: %w", err)
	}

	<-ctx.Done()
	return fmt.Errorf("running context: %w", ctx.Err())
}

func (l *Ledger) Metrics() []prometheus.Collector {
	res := slices.Concat(
		l.ctrl.Metrics(),
		l.Processor.Metrics(),
		l.state.Metrics(),
	)
	if mp, ok := l.rewards.(model.MetricsProvider); ok {
		res = append(res, mp.Metrics()...)
	}
	return res
}

func (l *Ledger) Close() error {
	if err := l.state.Close(); err != nil {
		return fmt.Errorf("closing state: %w", err)
	}
	return nil
}
