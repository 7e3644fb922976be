package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jtyocum/groupstool/pkg/sdk"
	"github.com/pterm/pterm"
)

// Provider yields HTTP and SDK clients authenticated with the client
// certificate given on the command line.
type Provider struct {
	apiURL   string
	timeout  time.Duration
	caBundle string
	logger   *pterm.Logger

	credential sdk.Credential

	httpOnce sync.Once
	httpCli  *http.Client
	httpErr  error

	sdkOnce   sync.Once
	sdkClient *sdk.Client
	sdkErr    error
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithTimeout bounds each request. Zero keeps sdk.DefaultTimeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		p.timeout = timeout
	}
}

// WithCABundle verifies the service against the CAs in path instead of the
// system roots.
func WithCABundle(path string) ProviderOption {
	return func(p *Provider) {
		p.caBundle = path
	}
}

// WithLogger routes SDK debug output to logger.
func WithLogger(logger *pterm.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider constructs a new Provider bound to the given service URL.
func NewProvider(apiURL string, opts ...ProviderOption) *Provider {
	p := &Provider{apiURL: apiURL}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = pterm.DefaultLogger.WithWriter(io.Discard)
	}
	return p
}

// SetCredential sets the certificate bundle presented to the service. It
// must be called before the first HTTPClient or SDKClient call.
func (p *Provider) SetCredential(cred sdk.Credential) {
	p.credential = cred
}

// HTTPClient returns an http.Client presenting the configured credential.
func (p *Provider) HTTPClient() (*http.Client, error) {
	p.httpOnce.Do(func() {
		if p.apiURL == "" {
			p.httpErr = errors.New("no groups API configured; set --api, GROUPS_API or a profile in ~/.groupstool/config.yaml")
			return
		}

		opts := sdk.TransportOptions{Timeout: p.timeout}
		if p.caBundle != "" {
			pool, err := sdk.LoadCertPool(p.caBundle)
			if err != nil {
				p.httpErr = err
				return
			}
			opts.RootCAs = pool
		}

		p.logger.Debug("loading client certificate", p.logger.Args(
			"path", p.credential.Path,
			"ca_bundle", p.caBundle,
			"timeout", p.effectiveTimeout().String(),
		))

		p.httpCli, p.httpErr = sdk.NewHTTPClient(p.credential, opts)
	})

	if p.httpErr != nil {
		return nil, p.httpErr
	}

	return p.httpCli, nil
}

// SDKClient returns an authenticated SDK client backed by HTTPClient.
func (p *Provider) SDKClient() (*sdk.Client, error) {
	p.sdkOnce.Do(func() {
		httpClient, err := p.HTTPClient()
		if err != nil {
			p.sdkErr = err
			return
		}

		p.sdkClient = sdk.NewClient(p.apiURL,
			sdk.WithHTTPClient(httpClient),
			sdk.WithLogger(p.logger),
		)
	})

	if p.sdkErr != nil {
		return nil, fmt.Errorf("failed to create groups client: %w", p.sdkErr)
	}

	return p.sdkClient, nil
}

func (p *Provider) effectiveTimeout() time.Duration {
	if p.timeout > 0 {
		return p.timeout
	}
	return sdk.DefaultTimeout
}
