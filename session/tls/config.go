package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"os"
	"strings"
	"sync"

	"http-req/transport"

	"github.com/pkg/errors"
)

// Config is a [Connector] backed by crypto/tls.
// Roots may be added at any time; connections started afterwards trust them.
type Config struct {
	mu    sync.RWMutex
	roots *x509.CertPool

	logger *slog.Logger
}

var _ Connector = (*Config)(nil)

// NewConfig trusts the system roots, or nothing when they cannot be loaded.
func NewConfig() *Config {
	roots, err := x509.SystemCertPool()
	if err != nil {
		roots = x509.NewCertPool()
	}
	return &Config{roots: roots, logger: slog.New(slog.DiscardHandler)}
}

// NewEmptyConfig trusts only roots added later.
func NewEmptyConfig() *Config {
	return &Config{roots: x509.NewCertPool(), logger: slog.New(slog.DiscardHandler)}
}

func (c *Config) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	c.logger = logger
}

// AddRootCertificate trusts every certificate in the PEM block(s) of pem.
func (c *Config) AddRootCertificate(pem []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	roots := c.roots.Clone()
	if !roots.AppendCertsFromPEM(pem) {
		return &Error{Op: "add root certificate", cause: errors.New("no certificate found in PEM data")}
	}
	c.roots = roots
	return nil
}

// AddRootCertFilePEM reads a PEM file and trusts its certificates.
func (c *Config) AddRootCertFilePEM(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &Error{Op: "add root certificate", cause: errors.Wrapf(err, "reading %s", path)}
	}
	return c.AddRootCertificate(b)
}

func (c *Config) Connect(ctx context.Context, hostname string, conn transport.Conn) (transport.Conn, error) {
	serverName := strings.TrimSuffix(strings.TrimPrefix(hostname, "["), "]")

	c.mu.RLock()
	cfg := &tls.Config{
		ServerName: serverName,
		RootCAs:    c.roots,
		MinVersion: tls.VersionTLS12,
	}
	c.mu.RUnlock()

	tc := tls.Client(transport.NetConn(conn), cfg)
	if err := tc.HandshakeContext(ctx); err != nil {
		return nil, &Error{Op: "handshake", cause: transport.MapNetError(err)}
	}

	state := tc.ConnectionState()
	c.logger.Debug("tls handshake done",
		slog.String("server_name", serverName),
		slog.String("version", tls.VersionName(state.Version)),
		slog.String("cipher_suite", tls.CipherSuiteName(state.CipherSuite)),
	)

	return transport.FromNetConn(tc), nil
}
