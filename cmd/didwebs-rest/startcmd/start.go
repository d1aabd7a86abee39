/*
Copyright WebOfTrust. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/weboftrust/didwebs-go/pkg/controller"
	"github.com/weboftrust/didwebs-go/pkg/keystate/filestore"
	"github.com/weboftrust/didwebs-go/pkg/vdr"
	"github.com/weboftrust/didwebs-go/pkg/vdr/webs"
)

const (
	// api host flag.
	hostFlagName      = "api-host"
	hostEnvKey        = "DIDWEBS_API_HOST"
	hostFlagShorthand = "a"
	hostFlagUsage     = "Host Name:Port." +
		" Alternatively, this can be set with the following environment variable: " + hostEnvKey

	// api token flag.
	tokenFlagName      = "api-token"
	tokenEnvKey        = "DIDWEBS_API_TOKEN" // nolint:gosec
	tokenFlagShorthand = "t"
	tokenFlagUsage     = "Check for bearer token in the authorization header (optional)." +
		" Alternatively, this can be set with the following environment variable: " + tokenEnvKey

	// key state directory flag.
	keyStateDirFlagName      = "key-state-dir"
	keyStateDirEnvKey        = "DIDWEBS_KEY_STATE_DIR"
	keyStateDirFlagShorthand = "d"
	keyStateDirFlagUsage     = "Directory of per-identifier key state records." +
		" Alternatively, this can be set with the following environment variable: " + keyStateDirEnvKey

	// log level.
	logLevelFlagName  = "log-level"
	logLevelEnvKey    = "DIDWEBS_LOG_LEVEL"
	logLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + logLevelEnvKey

	tlsCertFileFlagName      = "tls-cert-file"
	tlsCertFileEnvKey        = "DIDWEBS_TLS_CERT_FILE"
	tlsCertFileFlagShorthand = "c"
	tlsCertFileFlagUsage     = "tls certificate file." +
		" Alternatively, this can be set with the following environment variable: " + tlsCertFileEnvKey

	tlsKeyFileFlagName      = "tls-key-file"
	tlsKeyFileEnvKey        = "DIDWEBS_TLS_KEY_FILE"
	tlsKeyFileFlagShorthand = "k"
	tlsKeyFileFlagUsage     = "tls key file." +
		" Alternatively, this can be set with the following environment variable: " + tlsKeyFileEnvKey

	metricsPath = "/metrics"
)

var (
	errMissingHost = errors.New("host not provided")
	logger         = log.New("didwebs-go/didwebs-rest")
)

type serverParameters struct {
	server                  server
	host                    string
	token                   string
	keyStateDir             string
	tlsCertFile, tlsKeyFile string
}

type server interface {
	ListenAndServe(host string, router http.Handler, certFile, keyFile string) error
}

// HTTPServer represents an actual server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		return http.ListenAndServeTLS(host, certFile, keyFile, router)
	}

	return http.ListenAndServe(host, router)
}

// Cmd returns the Cobra start command.
func Cmd(server server) *cobra.Command {
	startCmd := createStartCMD(server)

	createFlags(startCmd)

	return startCmd
}

func createStartCMD(server server) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a did:webs resolver",
		Long:  `Start a did:webs resolver controller`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey, true)
			if err != nil {
				return err
			}

			err = setLogLevel(logLevel)
			if err != nil {
				return err
			}

			host, err := getUserSetVar(cmd, hostFlagName, hostEnvKey, false)
			if err != nil {
				return err
			}

			token, err := getUserSetVar(cmd, tokenFlagName, tokenEnvKey, true)
			if err != nil {
				return err
			}

			keyStateDir, err := getUserSetVar(cmd, keyStateDirFlagName, keyStateDirEnvKey, false)
			if err != nil {
				return err
			}

			tlsCertFile, err := getUserSetVar(cmd, tlsCertFileFlagName, tlsCertFileEnvKey, true)
			if err != nil {
				return err
			}

			tlsKeyFile, err := getUserSetVar(cmd, tlsKeyFileFlagName, tlsKeyFileEnvKey, true)
			if err != nil {
				return err
			}

			parameters := &serverParameters{
				server:      server,
				host:        host,
				token:       token,
				keyStateDir: keyStateDir,
				tlsCertFile: tlsCertFile,
				tlsKeyFile:  tlsKeyFile,
			}

			return startResolver(parameters)
		},
	}
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostFlagName, hostFlagShorthand, "", hostFlagUsage)
	startCmd.Flags().StringP(tokenFlagName, tokenFlagShorthand, "", tokenFlagUsage)
	startCmd.Flags().StringP(keyStateDirFlagName, keyStateDirFlagShorthand, "", keyStateDirFlagUsage)
	startCmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)
	startCmd.Flags().StringP(tlsCertFileFlagName, tlsCertFileFlagShorthand, "", tlsCertFileFlagUsage)
	startCmd.Flags().StringP(tlsKeyFileFlagName, tlsKeyFileFlagShorthand, "", tlsKeyFileFlagUsage)
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}

func validateAuthorizationBearerToken(w http.ResponseWriter, r *http.Request, token string) bool {
	actHdr := r.Header.Get("Authorization")
	expHdr := "Bearer " + token

	if subtle.ConstantTimeCompare([]byte(actHdr), []byte(expHdr)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorised.\n")) // nolint:gosec,errcheck

		return false
	}

	return true
}

func authorizationMiddleware(token string) mux.MiddlewareFunc {
	middleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validateAuthorizationBearerToken(w, r, token) {
				next.ServeHTTP(w, r)
			}
		})
	}

	return middleware
}

// ctxProvider carries the resolver dependencies of the controller layer.
type ctxProvider struct {
	registry *vdr.Registry
}

func (p *ctxProvider) VDRegistry() vdr.Resolver {
	return p.registry
}

func startResolver(parameters *serverParameters) error {
	if parameters.host == "" {
		return errMissingHost
	}

	store := filestore.New(parameters.keyStateDir)

	websVDR := webs.New(store, webs.WithCredentialRegistry(store))

	ctx := &ctxProvider{registry: vdr.New(vdr.WithVDR(websVDR))}

	registry := prometheus.NewRegistry()

	handlers := controller.GetRESTHandlers(ctx, controller.WithMetricsRegisterer(registry))

	router := mux.NewRouter()

	if parameters.token != "" {
		router.Use(authorizationMiddleware(parameters.token))
	}

	router.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	for _, handler := range handlers {
		router.HandleFunc(handler.Path(), handler.Handle()).Methods(handler.Method())
	}

	logger.Infof("Starting didwebs resolver rest on host [%s]", parameters.host)

	handler := cors.New(
		cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		},
	).Handler(router)

	err := parameters.server.ListenAndServe(parameters.host, handler, parameters.tlsCertFile, parameters.tlsKeyFile)
	if err != nil {
		return fmt.Errorf("failed to start didwebs resolver rest on port [%s], cause:  %w", parameters.host, err)
	}

	return nil
}
