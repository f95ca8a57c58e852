package permissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/pkg/api"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

const (
	EntityAdmin      = "admin"
	EntityAuction    = "auction"
	EntitySettlement = "settlement"
	EntityRouter     = "router"
	EntityAccount    = "account"
	EntityWebhook    = "webhook"

	ActionRead  = "read"
	ActionWrite = "write"
)

// OperatorPermissions grants access to all actions of all entities. It is
// meant for the owner and the owner assistant of the engine.
func OperatorPermissions() []bakery.Op {
	return []bakery.Op{
		{Entity: EntityAdmin, Action: ActionWrite},
		{Entity: EntityAuction, Action: ActionWrite},
		{Entity: EntitySettlement, Action: ActionWrite},
		{Entity: EntityRouter, Action: ActionWrite},
		{Entity: EntityAccount, Action: ActionWrite},
		{Entity: EntityWebhook, Action: ActionRead},
		{Entity: EntityWebhook, Action: ActionWrite},
	}
}

// SolverPermissions grants access to bidding, settlement, fast fill
// redemption and token transfers.
func SolverPermissions() []bakery.Op {
	return []bakery.Op{
		{Entity: EntityAuction, Action: ActionWrite},
		{Entity: EntitySettlement, Action: ActionWrite},
		{Entity: EntityRouter, Action: ActionWrite},
		{Entity: EntityAccount, Action: ActionWrite},
	}
}

// WebhookPermissions grants access to all actions of the webhook entity.
func WebhookPermissions() []bakery.Op {
	return []bakery.Op{
		{Entity: EntityWebhook, Action: ActionRead},
		{Entity: EntityWebhook, Action: ActionWrite},
	}
}

// Presets are the permission sets tokens can be issued for, by name.
func Presets() map[string][]bakery.Op {
	return map[string][]bakery.Op{
		"operator": OperatorPermissions(),
		"solver":   SolverPermissions(),
		"webhook":  WebhookPermissions(),
	}
}

// Whitelist returns the methods that can be called without a token.
func Whitelist() map[string][]bakery.Op {
	return map[string][]bakery.Op{
		admin("GetRouterEndpoint"):             {{Entity: EntityAdmin, Action: ActionRead}},
		admin("ListRouterEndpoints"):           {{Entity: EntityAdmin, Action: ActionRead}},
		admin("GetProposal"):                   {{Entity: EntityAdmin, Action: ActionRead}},
		admin("ListProposals"):                 {{Entity: EntityAdmin, Action: ActionRead}},
		admin("GetCustodian"):                  {{Entity: EntityAdmin, Action: ActionRead}},
		admin("GetAuctionConfig"):              {{Entity: EntityAdmin, Action: ActionRead}},
		auction("GetAuction"):                  {{Entity: EntityAuction, Action: ActionRead}},
		auction("ListAuctions"):                {{Entity: EntityAuction, Action: ActionRead}},
		settlement("GetPreparedOrderResponse"): {{Entity: EntitySettlement, Action: ActionRead}},
		router("GetRedeemedFastFill"):          {{Entity: EntityRouter, Action: ActionRead}},
		router("GetPublishedMessage"):          {{Entity: EntityRouter, Action: ActionRead}},
		account("GetTokenAccount"):             {{Entity: EntityAccount, Action: ActionRead}},
	}
}

// AllPermissionsByMethod returns a mapping of the RPC server calls to the
// permissions they require.
func AllPermissionsByMethod() map[string][]bakery.Op {
	return map[string][]bakery.Op{
		admin("Initialize"):                  {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("SetPause"):                    {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("SubmitOwnershipTransfer"):     {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("ConfirmOwnershipTransfer"):    {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("CancelOwnershipTransfer"):     {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("UpdateOwnerAssistant"):        {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("UpdateFeeRecipient"):          {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("AddRouterEndpoint"):           {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("UpdateRouterEndpoint"):        {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("DisableRouterEndpoint"):       {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("ProposeAuctionParameters"):    {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("UpdateAuctionParameters"):     {{Entity: EntityAdmin, Action: ActionWrite}},
		admin("CloseProposal"):               {{Entity: EntityAdmin, Action: ActionWrite}},
		auction("PlaceInitialOffer"):         {{Entity: EntityAuction, Action: ActionWrite}},
		auction("ImproveOffer"):              {{Entity: EntityAuction, Action: ActionWrite}},
		auction("ExecuteFastOrder"):          {{Entity: EntityAuction, Action: ActionWrite}},
		settlement("PrepareOrderResponse"):   {{Entity: EntitySettlement, Action: ActionWrite}},
		settlement("SettleAuctionComplete"):  {{Entity: EntitySettlement, Action: ActionWrite}},
		settlement("SettleAuctionNoneCctp"):  {{Entity: EntitySettlement, Action: ActionWrite}},
		settlement("SettleAuctionNoneLocal"): {{Entity: EntitySettlement, Action: ActionWrite}},
		router("RedeemFastFill"):             {{Entity: EntityRouter, Action: ActionWrite}},
		account("OpenTokenAccount"):          {{Entity: EntityAccount, Action: ActionWrite}},
		account("Transfer"):                  {{Entity: EntityAccount, Action: ActionWrite}},
		account("Mint"):                      {{Entity: EntityAccount, Action: ActionWrite}},
		webhook("AddWebhook"):                {{Entity: EntityWebhook, Action: ActionWrite}},
		webhook("RemoveWebhook"):             {{Entity: EntityWebhook, Action: ActionWrite}},
		webhook("ListWebhooks"):              {{Entity: EntityWebhook, Action: ActionRead}},
	}
}

// Validate makes sure every method of the engine services is either
// whitelisted or restricted, but not both.
func Validate() error {
	whitelist := Whitelist()
	restricted := AllPermissionsByMethod()
	for _, desc := range api.ServiceDescs {
		for _, m := range desc.Methods {
			method := api.FullMethod(desc.ServiceName, m.MethodName)
			_, isPublic := whitelist[method]
			_, isRestricted := restricted[method]
			if isPublic == isRestricted {
				return fmt.Errorf("%s must be either whitelisted or restricted", method)
			}
		}
	}
	if len(whitelist)+len(restricted) != countMethods() {
		return fmt.Errorf("permissions refer to unknown methods")
	}
	return nil
}

// Encode converts the given ops into the entity:action form stored in
// access tokens.
func Encode(ops []bakery.Op) []string {
	encoded := make([]string, 0, len(ops))
	for _, op := range ops {
		encoded = append(encoded, op.Entity+":"+op.Action)
	}
	return encoded
}

// Decode parses the permissions of an access token.
func Decode(perms []string) ([]bakery.Op, error) {
	ops := make([]bakery.Op, 0, len(perms))
	for _, p := range perms {
		parts := strings.Split(p, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed permission %q", p)
		}
		ops = append(ops, bakery.Op{Entity: parts[0], Action: parts[1]})
	}
	return ops, nil
}

// Allows returns whether granted covers all required ops. A write grant
// on an entity covers reads too.
func Allows(granted, required []bakery.Op) bool {
	for _, req := range required {
		ok := false
		for _, g := range granted {
			if g.Entity != req.Entity {
				continue
			}
			if g.Action == req.Action || g.Action == ActionWrite {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

type signerKey struct{}

// WithSigner returns a context carrying the authenticated signer.
func WithSigner(ctx context.Context, signer domain.Address) context.Context {
	return context.WithValue(ctx, signerKey{}, signer)
}

// SignerFromContext returns the authenticated signer, if any.
func SignerFromContext(ctx context.Context) (domain.Address, bool) {
	signer, ok := ctx.Value(signerKey{}).(domain.Address)
	return signer, ok
}

func countMethods() int {
	count := 0
	for _, desc := range api.ServiceDescs {
		count += len(desc.Methods)
	}
	return count
}

func admin(method string) string      { return api.FullMethod(api.AdminServiceName, method) }
func auction(method string) string    { return api.FullMethod(api.AuctionServiceName, method) }
func settlement(method string) string { return api.FullMethod(api.SettlementServiceName, method) }
func router(method string) string     { return api.FullMethod(api.TokenRouterServiceName, method) }
func account(method string) string    { return api.FullMethod(api.AccountServiceName, method) }
func webhook(method string) string    { return api.FullMethod(api.WebhookServiceName, method) }
