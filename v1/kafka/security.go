package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// security returns the TLS config and SASL mechanism enabled in cfg. Either
// may be nil.
func security(cfg Config) (*tls.Config, sasl.Mechanism, error) {
	var (
		tlsConfig *tls.Config
		mechanism sasl.Mechanism
		err       error
	)
	if cfg.TLS.Enabled {
		if tlsConfig, err = tlsConfigFrom(cfg.TLS); err != nil {
			return nil, nil, fmt.Errorf("kafka tls: %w", err)
		}
	}
	if cfg.SASL.Enabled {
		if mechanism, err = saslMechanismFrom(cfg.SASL); err != nil {
			return nil, nil, fmt.Errorf("kafka SASL: %w", err)
		}
	}
	return tlsConfig, mechanism, nil
}

func tlsConfigFrom(cfg TLSConfig) (*tls.Config, error) {
	out := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in CA cert %s", cfg.CACertPath)
		}
		out.RootCAs = pool
	}

	switch {
	case cfg.ClientCertPath != "" && cfg.ClientKeyPath != "":
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		out.Certificates = []tls.Certificate{cert}
	case cfg.ClientCertPath != "" || cfg.ClientKeyPath != "":
		return nil, fmt.Errorf("client cert and key must be set together")
	}
	return out, nil
}

func saslMechanismFrom(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported mechanism %q", cfg.Mechanism)
	}
}
