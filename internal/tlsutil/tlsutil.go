// Package tlsutil provides self-signed TLS credentials for tests and local
// development. spec.md §1 treats certificate provisioning as an external
// collaborator's concern — production deployments hand the core a
// ready-made server/client credential pair — so this package exists so the
// core's own tests, and the mpcnode command's dev-credential path, can
// stand up a real TLS mesh without a CA.
package tlsutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Pair holds a self-signed certificate for host and the pool that both a
// server and a client need to trust it.
type Pair struct {
	host string
	cert tls.Certificate
	pool *x509.CertPool
}

// NewSelfSignedPair generates an ECDSA P-256 self-signed certificate valid
// for host (an IP or DNS name), suitable as both the server's leaf
// certificate and the client's trust anchor.
func NewSelfSignedPair(host string) (*Pair, error) {
	return NewSelfSignedPairForHosts([]string{host})
}

// NewSelfSignedPairForHosts generates a single self-signed certificate
// valid for every host in hosts, so one credential pair can be shared
// across an entire mesh regardless of which peer's address a given
// connection targets.
func NewSelfSignedPairForHosts(hosts []string) (*Pair, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("tlsutil: at least one host is required")
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: generating key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("tlsutil: generating serial: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: hosts[0]},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	for _, host := range hosts {
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, host)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: creating certificate: %w", err)
	}

	cert := tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}

	parsed, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: parsing certificate: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AddCert(parsed)

	return &Pair{host: hosts[0], cert: cert, pool: pool}, nil
}

// ServerTLSConfig returns a tls.Config presenting the generated
// certificate, for the listening side of a channel handshake.
func (p *Pair) ServerTLSConfig() *tls.Config {
	return &tls.Config{Certificates: []tls.Certificate{p.cert}, MinVersion: tls.VersionTLS12}
}

// ClientTLSConfig returns a tls.Config that trusts only the generated
// certificate and asserts the server name derived from the peer's IP, per
// spec.md §4.5.
func (p *Pair) ClientTLSConfig() *tls.Config {
	return &tls.Config{RootCAs: p.pool, ServerName: p.host, MinVersion: tls.VersionTLS12}
}

// MeshClientTLSConfig returns a tls.Config that trusts the generated
// certificate without pinning a single expected server name: Go's TLS
// client derives the name to verify per dial from the address actually
// being connected to when ServerName is left empty, which is what a
// certificate shared across a multi-host mesh needs — unlike
// ClientTLSConfig, whose fixed ServerName only suits a single-host test
// mesh.
func (p *Pair) MeshClientTLSConfig() *tls.Config {
	return &tls.Config{RootCAs: p.pool, MinVersion: tls.VersionTLS12}
}

// CertPEM returns the PEM encoding of the certificate, for callers that
// need to persist it (e.g. sharing one generated pair across processes).
func (p *Pair) CertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: p.cert.Certificate[0]})
}

// KeyPEM returns the PEM encoding of the EC private key.
func (p *Pair) KeyPEM() ([]byte, error) {
	key, ok := p.cert.PrivateKey.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("tlsutil: private key is not ECDSA")
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: marshaling key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

// LoadPair reads back a Pair previously persisted with CertPEM/KeyPEM.
func LoadPair(certPEM, keyPEM []byte) (*Pair, error) {
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: parsing keypair: %w", err)
	}
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("tlsutil: parsing certificate: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AddCert(parsed)
	return &Pair{host: parsed.Subject.CommonName, cert: cert, pool: pool}, nil
}

// Fingerprint returns the blake2b-256 digest of the certificate's DER
// encoding, letting tests assert that the certificate a dialed connection
// actually presented is the one a given Pair generated, without pulling in
// a second hashing stack alongside blake2b.
func (p *Pair) Fingerprint() [32]byte {
	return blake2b.Sum256(p.cert.Certificate[0])
}
