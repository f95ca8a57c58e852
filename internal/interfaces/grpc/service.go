package grpcinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/grpcutil"
	"github.com/fastfill-network/matching-engine/internal/interfaces"
	grpchandler "github.com/fastfill-network/matching-engine/internal/interfaces/grpc/handler"
	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/interceptor"
	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/permissions"
	httpinterface "github.com/fastfill-network/matching-engine/internal/interfaces/http"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/soheilhy/cmux"
	"go.uber.org/ratelimit"
	"google.golang.org/grpc"
)

const (
	// MetricsPath is where prometheus metrics are served.
	MetricsPath = "/metrics"
	// HealthPath answers 200 once the daemon is serving.
	HealthPath = "/healthz"
)

// ServiceOpts configures the interface of the daemon: the gRPC services,
// their grpc-web wrapper and the HTTP endpoints, all served on Address.
type ServiceOpts struct {
	Datadir      string
	Address      string
	NoTLS        bool
	TLSLocation  string
	ExtraIPs     []string
	ExtraDomains []string

	// AuthSecret signs and verifies the bearer tokens of restricted calls.
	AuthSecret []byte
	// RateLimit is the max number of requests served per second. Zero means
	// unlimited.
	RateLimit int

	AppConfig   *application.Config
	EventStream *httpinterface.EventStream
}

func (o ServiceOpts) validate() error {
	if !isValidAddress(o.Address) {
		return fmt.Errorf("address is not valid: %s", o.Address)
	}
	if len(o.AuthSecret) <= 0 {
		return fmt.Errorf("missing auth secret")
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if o.AppConfig == nil {
		return fmt.Errorf("missing application config")
	}
	if !o.NoTLS {
		if len(o.Datadir) <= 0 {
			return fmt.Errorf("missing datadir for tls key and certificate")
		}
		for _, ip := range o.ExtraIPs {
			if net.ParseIP(ip) == nil {
				return fmt.Errorf("invalid extra ip %s", ip)
			}
		}
		keyExists := pathExists(o.tlsKey())
		certExists := pathExists(o.tlsCert())
		if !keyExists && certExists {
			return fmt.Errorf(
				"found %s but %s is missing, delete %s to have the daemon "+
					"recreate both in path %s",
				TLSCertFile, TLSKeyFile, TLSCertFile, o.tlsDatadir(),
			)
		}
	}
	return o.AppConfig.Validate()
}

func (o ServiceOpts) tlsDatadir() string {
	return filepath.Join(o.Datadir, o.TLSLocation)
}

func (o ServiceOpts) tlsKey() string {
	return filepath.Join(o.tlsDatadir(), TLSKeyFile)
}

func (o ServiceOpts) tlsCert() string {
	return filepath.Join(o.tlsDatadir(), TLSCertFile)
}

type service struct {
	opts ServiceOpts

	grpcServer *grpc.Server
	httpServer *http.Server
	mux        cmux.CMux
}

// NewService returns the interface of the daemon, ready to be started.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	if err := permissions.Validate(); err != nil {
		return nil, err
	}
	if !opts.NoTLS {
		if err := generateTLSKeyCert(
			opts.tlsDatadir(), opts.ExtraIPs, opts.ExtraDomains,
		); err != nil {
			return nil, err
		}
	}
	return &service{opts: opts}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	if !s.opts.NoTLS {
		if lis, err = tlsListener(lis, s.opts.tlsKey(), s.opts.tlsCert()); err != nil {
			return err
		}
	}

	s.grpcServer = newGrpcServer(s.opts)
	s.mux, s.httpServer = grpcutil.ServeMux(lis, s.grpcServer, s.httpHandler())

	log.Infof("engine interface is listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	if s.opts.EventStream != nil {
		s.opts.EventStream.Close()
		log.Debug("closed event stream")
	}

	log.Debug("stop http server")
	s.httpServer.Shutdown(context.Background())

	log.Debug("stop grpc server")
	s.grpcServer.GracefulStop()

	log.Debug("stop mux")
	s.mux.Close()
}

func (s *service) httpHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.Handler())
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.opts.EventStream != nil {
		mux.Handle(httpinterface.EventStreamPath, s.opts.EventStream)
	}
	return mux
}

// newGrpcServer returns a grpc server with all engine services registered
// and the interceptor chain in place.
func newGrpcServer(opts ServiceOpts) *grpc.Server {
	var limiter ratelimit.Limiter
	if opts.RateLimit > 0 {
		limiter = ratelimit.New(opts.RateLimit)
	}
	grpcServer := grpc.NewServer(
		interceptor.UnaryInterceptor(opts.AuthSecret, limiter),
	)

	cfg := opts.AppConfig
	api.RegisterAdminServiceServer(
		grpcServer, grpchandler.NewAdminHandler(cfg.AdminService()),
	)
	api.RegisterAuctionServiceServer(
		grpcServer, grpchandler.NewAuctionHandler(cfg.AuctionService()),
	)
	api.RegisterSettlementServiceServer(
		grpcServer, grpchandler.NewSettlementHandler(cfg.SettlementService()),
	)
	api.RegisterTokenRouterServiceServer(
		grpcServer, grpchandler.NewTokenRouterHandler(cfg.TokenRouterService()),
	)
	api.RegisterAccountServiceServer(
		grpcServer, grpchandler.NewAccountHandler(cfg.AccountService()),
	)
	api.RegisterWebhookServiceServer(
		grpcServer, grpchandler.NewWebhookHandler(cfg.PubSubService()),
	)
	return grpcServer
}

func isValidAddress(addr string) bool {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil || strings.Contains(host, " ") {
		return false
	}
	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}
	return port > 1024 && port <= 65535
}
