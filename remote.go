package ibp

import (
	"errors"
	"fmt"
	"time"

	"github.com/horockey/go-toolbox/options"
	"github.com/horockey/ibp/internal/gateway/remote_ledger/http_remote_ledger"
	"github.com/rs/zerolog"
)

// NewRemote returns a client of the node listening at baseURL.
func NewRemote(baseURL string, apiKey string, opts ...options.Option[createRemoteParams]) (Remote, error) {
	if baseURL == "" {
		return nil, errors.New("got empty base url")
	}

	params := createRemoteParams{
		timeout: time.Second * 10, //nolint: mnd
		logger:  zerolog.Nop(),
	}
	if err := options.ApplyOptions(&params, opts...); err != nil {
		return nil, fmt.Errorf("applying opts: %w", err)
	}

	return http_remote_ledger.New(baseURL, apiKey, params.adminKey, params.timeout, params.logger), nil
}
