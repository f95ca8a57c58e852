package interceptor

import (
	"context"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/permissions"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

func unaryAuthHandler(secret []byte) grpc.UnaryServerInterceptor {
	whitelist := permissions.Whitelist()
	permissionMap := permissions.AllPermissionsByMethod()

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, ok := whitelist[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		uriPermissions, ok := permissionMap[info.FullMethod]
		if !ok {
			return nil, status.Errorf(
				codes.PermissionDenied,
				"%s: unknown permissions required for method", info.FullMethod,
			)
		}

		authCtx, err := authenticate(ctx, secret, uriPermissions)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

// authenticate verifies the bearer token of the request and returns a
// context carrying the signer it was issued for.
func authenticate(
	ctx context.Context, secret []byte, required []bakery.Op,
) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}
	values := md.Get(api.AuthorizationHeader)
	if len(values) <= 0 {
		return nil, status.Error(codes.Unauthenticated, "missing bearer token")
	}
	token, ok := api.BearerToken(values[0])
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "malformed bearer token")
	}

	claims, err := api.ParseToken(secret, token)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "invalid token: %s", err)
	}
	signer, err := domain.ParseAddress(claims.Subject)
	if err != nil || signer == (domain.Address{}) {
		return nil, status.Error(codes.Unauthenticated, "invalid token subject")
	}

	granted, err := permissions.Decode(claims.Permissions)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "invalid token: %s", err)
	}
	if !permissions.Allows(granted, required) {
		return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	}

	return permissions.WithSigner(ctx, signer), nil
}
