package grpcutil

import (
	"net"
	"net/http"
	"strings"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
)

// ServeMux serves the given grpc server and multiplexes on the same listener
// an http server. HTTP/1 requests with content-type application/grpc-web are
// routed to the grpc server, all the others to httpHandler.
func ServeMux(
	lis net.Listener, grpcServer *grpc.Server, httpHandler http.Handler,
) (cmux.CMux, *http.Server) {
	mux := cmux.New(lis)
	grpcL := mux.MatchWithWriters(
		cmux.HTTP2MatchHeaderFieldPrefixSendSettings("content-type", "application/grpc"),
	)
	httpL := mux.Match(cmux.HTTP1Fast())

	httpServer := &http.Server{Handler: NewGrpcWebHandler(grpcServer, httpHandler)}

	go grpcServer.Serve(grpcL)
	go httpServer.Serve(httpL)
	go mux.Serve()
	return mux, httpServer
}

// NewGrpcWebHandler wraps the grpc server so that browsers can reach it
// over HTTP/1. Requests that are not grpc-web ones are passed to fallback.
func NewGrpcWebHandler(grpcServer *grpc.Server, fallback http.Handler) http.Handler {
	grpcWebServer := grpcweb.WrapServer(
		grpcServer,
		grpcweb.WithCorsForRegisteredEndpointsOnly(false),
		grpcweb.WithOriginFunc(func(origin string) bool { return true }),
	)
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		if grpcWebServer.IsGrpcWebRequest(req) || isGrpcWebPreflight(req) {
			grpcWebServer.ServeHTTP(resp, req)
			return
		}
		if fallback == nil {
			http.NotFound(resp, req)
			return
		}
		fallback.ServeHTTP(resp, req)
	})
}

func isGrpcWebPreflight(req *http.Request) bool {
	accessControlHeader := req.Header.Get("Access-Control-Request-Headers")
	return req.Method == http.MethodOptions &&
		strings.Contains(accessControlHeader, "x-grpc-web") &&
		strings.Contains(accessControlHeader, "content-type")
}
