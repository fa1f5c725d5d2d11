package ibp

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/horockey/go-toolbox/options"
	"github.com/horockey/ibp/internal/balances"
	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/rs/zerolog"
)

// LedgerOption configures NewLedger.
type LedgerOption = options.Option[createLedgerParams]

// Sets badger root dir and switches the node to persistent state.
// Default is in-memory state.
func WithBadgerDir(dir string) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if dir == "" {
			return errors.New("got empty badger dir")
		}
		target.badgerDir = dir
		return nil
	}
}

// Sets custom service port.
// Default is 7000.
func WithServicePort(p int) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("port must be in (0, 65535], got: %d", p)
		}
		target.servicePort = p
		return nil
	}
}

// Sets amount credited for every accepted health check.
// Default is 1.
func WithRewardAmount(amount *big.Int) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if amount == nil || amount.Sign() < 0 || amount.Cmp(balances.MaxBalance) > 0 {
			return fmt.Errorf("reward amount must be in [0, 2^128-1], got: %v", amount)
		}
		target.rewardAmount = new(big.Int).Set(amount)
		return nil
	}
}

// Enables the mint action.
// Default is disabled.
func WithTestMode(enabled bool) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		target.testMode = enabled
		return nil
	}
}

// Sets custom logger.
// Default is stdout logger.
func WithLogger(l zerolog.Logger) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		target.logger = l
		return nil
	}
}

// Sets subscriber for committed events.
func WithEventHandler(h EventHandler) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if h == nil {
			return errors.New("got nil event handler")
		}
		target.onEvent = h
		return nil
	}
}

// Sets user-defined implementation of state store.
// Overrides WithBadgerDir.
//
// WARNING! Apply this opt only if you know what you are doing.
func WithStateRepo(repo kv_state.Repository) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if repo == nil {
			return errors.New("got nil state repo")
		}
		target.state = repo
		return nil
	}
}

// Sets user-defined reward issuer.
// Default keeps balances in the ledger state.
func WithRewardIssuer(ri RewardIssuer) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if ri == nil {
			return errors.New("got nil reward issuer")
		}
		target.rewards = ri
		return nil
	}
}

// Sets user-defined origin checks.
func WithOriginVerifier(v OriginVerifier) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if v == nil {
			return errors.New("got nil origin verifier")
		}
		target.verifier = v
		return nil
	}
}

// Sets user-defined controller.
// Default is HTTP.
//
// WARNING! Apply this opt only if you know what you are doing.
func WithController(ctrl Controller) options.Option[createLedgerParams] {
	return func(target *createLedgerParams) error {
		if ctrl == nil {
			return errors.New("got nil controller")
		}
		target.ctrl = ctrl
		return nil
	}
}

type createRemoteParams struct {
	adminKey string
	timeout  time.Duration
	logger   zerolog.Logger
}

// Sets admin key sent with root origin actions.
func WithRemoteAdminKey(key string) options.Option[createRemoteParams] {
	return func(target *createRemoteParams) error {
		if key == "" {
			return errors.New("got empty admin key")
		}
		target.adminKey = key
		return nil
	}
}

// Sets request timeout.
// Default is 10s.
func WithRemoteTimeout(to time.Duration) options.Option[createRemoteParams] {
	return func(target *createRemoteParams) error {
		if to <= 0 {
			return fmt.Errorf("timeout must be positive, got: %s", to.String())
		}
		target.timeout = to
		return nil
	}
}

// Sets custom logger.
// Default is nop logger.
func WithRemoteLogger(l zerolog.Logger) options.Option[createRemoteParams] {
	return func(target *createRemoteParams) error {
		target.logger = l
		return nil
	}
}
