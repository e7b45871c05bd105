// Command mpcnode is the CLI front-end for one party in a Shamir-sharing
// MPC session (spec.md §6): it owns configuration parsing, logging, and
// certificate provisioning, none of which the core packages concern
// themselves with. The core itself only ever consumes a ready-made
// server/client credential pair (spec.md §1); this command is what
// produces or loads one.
package main

import (
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shamirmpc/mpcnode/internal/session"
	"github.com/shamirmpc/mpcnode/internal/tlsutil"
	"github.com/shamirmpc/mpcnode/pkg/network"
)

var (
	partyID      int
	configPath   string
	threshold    int
	inputValue   uint64
	logLevelFlag string
	certPath     string
	keyPath      string
	caPath       string
)

var rootCmd = &cobra.Command{
	Use:   "mpcnode",
	Short: "Run one party of a Shamir-sharing MPC product session",
	Long: `mpcnode joins a fixed-membership MPC session that computes the product
of every party's private input under an honest-majority threshold, then
reveals the result to all parties.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().IntVarP(&partyID, "id", "i", -1, "this party's index in peer_ips (required)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the network configuration JSON file (required)")
	rootCmd.Flags().IntVarP(&threshold, "threshold", "t", -1, "corruption threshold; must satisfy 2t+1 <= N (required)")
	rootCmd.Flags().Uint64VarP(&inputValue, "input", "v", 0, "this party's private input value (required)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "override the MPCNODE_LOG_LEVEL environment variable")
	rootCmd.Flags().StringVar(&certPath, "tls-cert", "", "PEM certificate shared by every party (dev: omit along with --tls-key/--tls-ca to self-sign one)")
	rootCmd.Flags().StringVar(&keyPath, "tls-key", "", "PEM private key for --tls-cert")
	rootCmd.Flags().StringVar(&caPath, "tls-ca", "", "PEM CA pool peers are verified against (usually --tls-cert again, self-signed)")

	rootCmd.MarkFlagRequired("id")
	rootCmd.MarkFlagRequired("config")
	rootCmd.MarkFlagRequired("threshold")
	rootCmd.MarkFlagRequired("input")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mpcnode: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := network.LoadConfig(data)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if partyID < 0 || partyID >= cfg.N() {
		return fmt.Errorf("party id %d out of range for %d-party network", partyID, cfg.N())
	}
	if threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", threshold)
	}
	if 2*threshold+1 > cfg.N() {
		return fmt.Errorf("threshold %d requires at least %d parties, config has %d", threshold, 2*threshold+1, cfg.N())
	}

	log.Info().Int("id", partyID).Int("n", cfg.N()).Int("threshold", threshold).Msg("loaded network configuration")

	creds, err := loadCredentials(cfg)
	if err != nil {
		return fmt.Errorf("loading TLS credentials: %w", err)
	}

	log.Info().Msg("establishing full mesh with peers")
	net, err := network.Create(partyID, cfg, creds, log)
	if err != nil {
		return fmt.Errorf("establishing network: %w", err)
	}
	defer net.Close()

	result, err := session.Run(session.Params{Threshold: threshold, Input: inputValue}, net, rand.Reader, log)
	if err != nil {
		return fmt.Errorf("running session: %w", err)
	}

	fmt.Printf("%d\n", result.Uint64())
	return nil
}

// loadCredentials builds the shared server/client credential pair every
// party in the mesh authenticates with. Per spec.md §1 the core treats
// certificate provisioning as an external collaborator's concern: a real
// deployment supplies --tls-cert/--tls-key/--tls-ca pointing at a
// certificate every party was given out of band. With none of the three
// given, a single self-signed pair covering every peer_ips entry is
// generated (or, on later runs, loaded back) next to the config file, for
// convenience when standing up a whole mesh on one machine.
func loadCredentials(cfg network.Config) (network.Credentials, error) {
	if certPath == "" && keyPath == "" && caPath == "" {
		pair, err := devPair(cfg)
		if err != nil {
			return network.Credentials{}, fmt.Errorf("preparing dev credentials: %w", err)
		}
		return network.Credentials{
			ServerTLSConfig: pair.ServerTLSConfig(),
			ClientTLSConfig: pair.MeshClientTLSConfig(),
		}, nil
	}
	if certPath == "" || keyPath == "" || caPath == "" {
		return network.Credentials{}, fmt.Errorf("--tls-cert, --tls-key, and --tls-ca must all be given together")
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return network.Credentials{}, fmt.Errorf("loading keypair: %w", err)
	}
	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return network.Credentials{}, fmt.Errorf("reading CA pool: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return network.Credentials{}, fmt.Errorf("no certificates found in %s", caPath)
	}

	return network.Credentials{
		ServerTLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12},
		ClientTLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12},
	}, nil
}

// devPair loads a previously generated dev certificate from alongside the
// config file, or generates and persists one covering every peer_ips
// entry if none exists yet. Not safe against two parties racing to
// generate it for the first time on a shared filesystem; a real
// deployment uses --tls-cert/--tls-key/--tls-ca instead.
func devPair(cfg network.Config) (*tlsutil.Pair, error) {
	certFile := configPath + ".devcert.pem"
	keyFile := configPath + ".devkey.pem"

	if certPEM, err := os.ReadFile(certFile); err == nil {
		keyPEM, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("reading dev key %s: %w", keyFile, err)
		}
		return tlsutil.LoadPair(certPEM, keyPEM)
	}

	pair, err := tlsutil.NewSelfSignedPairForHosts(cfg.PeerIPs)
	if err != nil {
		return nil, fmt.Errorf("generating dev certificate: %w", err)
	}
	keyPEM, err := pair.KeyPEM()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(certFile, pair.CertPEM(), 0o644); err != nil {
		return nil, fmt.Errorf("writing dev certificate: %w", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		return nil, fmt.Errorf("writing dev key: %w", err)
	}
	return pair, nil
}

// newLogger builds the process-wide logging sink (spec.md §9: logging is
// the only process-wide concern, and it belongs here, not in the core).
// The level comes from --log-level if set, else MPCNODE_LOG_LEVEL, else
// info.
func newLogger() zerolog.Logger {
	levelStr := logLevelFlag
	if levelStr == "" {
		levelStr = os.Getenv("MPCNODE_LOG_LEVEL")
	}
	level := zerolog.InfoLevel
	if levelStr != "" {
		if parsed, err := zerolog.ParseLevel(levelStr); err == nil {
			level = parsed
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
