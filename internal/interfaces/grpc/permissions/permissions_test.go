package permissions_test

import (
	"fmt"
	"testing"

	"github.com/fastfill-network/matching-engine/internal/interfaces/grpc/permissions"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"github.com/stretchr/testify/require"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

func TestRestrictedMethods(t *testing.T) {
	allMethods := make([]string, 0)
	for _, m := range api.AdminServiceDesc.Methods {
		allMethods = append(allMethods, fmt.Sprintf("/%s/%s", api.AdminServiceDesc.ServiceName, m.MethodName))
	}
	for _, m := range api.WebhookServiceDesc.Methods {
		allMethods = append(allMethods, fmt.Sprintf("/%s/%s", api.WebhookServiceDesc.ServiceName, m.MethodName))
	}

	allPermissions := permissions.AllPermissionsByMethod()
	whitelist := permissions.Whitelist()
	for _, method := range allMethods {
		_, restricted := allPermissions[method]
		_, public := whitelist[method]
		require.True(t, restricted || public, fmt.Sprintf("missing permission for %s", method))
	}
}

func TestValidatePermissions(t *testing.T) {
	if err := permissions.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestEncodeDecode(t *testing.T) {
	ops := permissions.SolverPermissions()
	decoded, err := permissions.Decode(permissions.Encode(ops))
	require.NoError(t, err)
	require.Equal(t, ops, decoded)

	for _, malformed := range []string{"", "auction", "auction:", ":write", "a:b:c"} {
		_, err := permissions.Decode([]string{malformed})
		require.Error(t, err, malformed)
	}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		granted  []bakery.Op
		required []bakery.Op
		expected bool
	}{
		{
			name:     "operator can administer",
			granted:  permissions.OperatorPermissions(),
			required: []bakery.Op{{Entity: permissions.EntityAdmin, Action: permissions.ActionWrite}},
			expected: true,
		},
		{
			name:     "solver cannot administer",
			granted:  permissions.SolverPermissions(),
			required: []bakery.Op{{Entity: permissions.EntityAdmin, Action: permissions.ActionWrite}},
			expected: false,
		},
		{
			name:     "write covers read",
			granted:  permissions.SolverPermissions(),
			required: []bakery.Op{{Entity: permissions.EntityAuction, Action: permissions.ActionRead}},
			expected: true,
		},
		{
			name:     "read does not cover write",
			granted:  []bakery.Op{{Entity: permissions.EntityWebhook, Action: permissions.ActionRead}},
			required: []bakery.Op{{Entity: permissions.EntityWebhook, Action: permissions.ActionWrite}},
			expected: false,
		},
		{
			name:     "nothing granted",
			required: []bakery.Op{{Entity: permissions.EntityAccount, Action: permissions.ActionWrite}},
			expected: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, permissions.Allows(tt.granted, tt.required))
		})
	}
}
