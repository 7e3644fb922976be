package sdk

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a whole request, from dial to the last body byte.
const DefaultTimeout = 30 * time.Second

// TransportOptions tunes the client built by NewHTTPClient.
type TransportOptions struct {
	// Timeout applies to the whole exchange. Zero means DefaultTimeout.
	Timeout time.Duration
	// RootCAs verifies the service certificate. Nil means system roots.
	RootCAs *x509.CertPool
}

// NewHTTPClient returns an http.Client that presents the credential as its
// TLS client certificate. Redirects are never followed: a 3xx is handed back
// to the caller like any other status.
func NewHTTPClient(cred Credential, opts TransportOptions) (*http.Client, error) {
	cert, err := cred.LoadCertificate()
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
		RootCAs:      opts.RootCAs,
	}
	// One request per invocation; nothing to reuse.
	base.DisableKeepAlives = true

	return &http.Client{
		Timeout:   timeout,
		Transport: &credentialTransport{base: base, path: cred.Path},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

// credentialTransport reports a TLS alert sent by the server as a
// CredentialError, since the peer refusing the handshake almost always
// means it rejected the client certificate.
type credentialTransport struct {
	base http.RoundTripper
	path string
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil && isRemoteTLSAlert(err) {
		return nil, &CredentialError{Path: t.path, Err: err}
	}
	return resp, err
}

func isRemoteTLSAlert(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "remote error"
}
