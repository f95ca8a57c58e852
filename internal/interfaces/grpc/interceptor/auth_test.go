package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/permissions"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

var (
	secret = []byte("test secret")
	signer = domain.Address{1, 2, 3}
)

func TestAuthHandler(t *testing.T) {
	operatorToken := newToken(t, signer.String(), permissions.OperatorPermissions())
	solverToken := newToken(t, signer.String(), permissions.SolverPermissions())
	foreignToken, err := api.NewToken(
		[]byte("another secret"), signer.String(),
		permissions.Encode(permissions.OperatorPermissions()), 0,
	)
	require.NoError(t, err)

	initialize := api.FullMethod(api.AdminServiceName, "Initialize")
	placeOffer := api.FullMethod(api.AuctionServiceName, "PlaceInitialOffer")
	getAuction := api.FullMethod(api.AuctionServiceName, "GetAuction")

	tests := []struct {
		name         string
		method       string
		header       string
		expectedCode codes.Code
	}{
		{"whitelisted without token", getAuction, "", codes.OK},
		{"missing token", placeOffer, "", codes.Unauthenticated},
		{"malformed header", placeOffer, "Basic abc", codes.Unauthenticated},
		{"wrong secret", placeOffer, "Bearer " + foreignToken, codes.Unauthenticated},
		{"solver places offer", placeOffer, "Bearer " + solverToken, codes.OK},
		{"solver cannot initialize", initialize, "Bearer " + solverToken, codes.PermissionDenied},
		{"operator initializes", initialize, "Bearer " + operatorToken, codes.OK},
		{"unknown method", "/unknown/Method", "Bearer " + operatorToken, codes.PermissionDenied},
	}

	interceptor := unaryAuthHandler(secret)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.header != "" {
				ctx = metadata.NewIncomingContext(
					ctx, metadata.Pairs(api.AuthorizationHeader, tt.header),
				)
			}

			var gotSigner domain.Address
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				gotSigner, _ = permissions.SignerFromContext(ctx)
				return "ok", nil
			}
			res, err := interceptor(
				ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, handler,
			)
			require.Equal(t, tt.expectedCode, status.Code(err))
			if tt.expectedCode != codes.OK {
				require.Nil(t, res)
				return
			}
			require.Equal(t, "ok", res)
			if tt.method != getAuction {
				require.Equal(t, signer, gotSigner)
			}
		})
	}
}

func TestAuthHandlerInvalidSubject(t *testing.T) {
	interceptor := unaryAuthHandler(secret)
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	}
	info := &grpc.UnaryServerInfo{
		FullMethod: api.FullMethod(api.AuctionServiceName, "PlaceInitialOffer"),
	}

	for _, subject := range []string{"", "not an address", domain.Address{}.String()} {
		token := newToken(t, subject, permissions.SolverPermissions())
		ctx := metadata.NewIncomingContext(
			context.Background(),
			metadata.Pairs(api.AuthorizationHeader, "Bearer "+token),
		)
		_, err := interceptor(ctx, nil, info, handler)
		require.Equal(t, codes.Unauthenticated, status.Code(err), subject)
	}
}

func newToken(t *testing.T, subject string, ops []bakery.Op) string {
	t.Helper()
	token, err := api.NewToken(secret, subject, permissions.Encode(ops), time.Minute)
	require.NoError(t, err)
	return token
}
