package sdk

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// Credential points at a PEM bundle holding the client certificate (and any
// intermediates) followed by its private key. The file is only read.
type Credential struct {
	Path string
}

// LoadCertificate reads the bundle and returns the TLS key pair.
func (c Credential) LoadCertificate() (tls.Certificate, error) {
	if c.Path == "" {
		return tls.Certificate{}, &CredentialError{Path: c.Path, Err: errors.New("no certificate path given")}
	}

	pemBytes, err := os.ReadFile(c.Path)
	if err != nil {
		return tls.Certificate{}, &CredentialError{Path: c.Path, Err: err}
	}

	// The same bytes serve as both cert and key input; X509KeyPair skips
	// blocks of the other kind.
	cert, err := tls.X509KeyPair(pemBytes, pemBytes)
	if err != nil {
		return tls.Certificate{}, &CredentialError{Path: c.Path, Err: err}
	}
	return cert, nil
}

// LoadCertPool reads a PEM file of CA certificates used to verify the
// service.
func LoadCertPool(path string) (*x509.CertPool, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("no certificates found in CA bundle %s", path)
	}
	return pool, nil
}
