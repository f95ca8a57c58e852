package application

import (
	"fmt"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/hashicorp/go-multierror"
)

const (
	defaultConfigCacheSize = 64
)

// Config holds the dependencies and the settings of the engine services.
// Services are lazily created and shared.
type Config struct {
	RepoManager      ports.RepoManager
	Clock            ports.SlotClock
	CctpTransmitter  ports.CctpTransmitter
	MessagePublisher ports.MessagePublisher
	// PubSub is optional, without it webhooks cannot be managed.
	PubSub ports.PubSub
	// EventPublishers receive every engine event after it is committed.
	EventPublishers []ports.EventPublisher

	LocalChain           domain.ChainID
	UpgradeAuthority     domain.Address
	EngineProgramID      domain.Address
	TokenRouterProgramID domain.Address
	EnactDelaySlots      uint64
	ConfigCacheSize      int
	EnableFaucet         bool

	engine      *engine
	admin       AdminService
	auction     AuctionService
	settlement  SettlementService
	tokenRouter TokenRouterService
	account     AccountService
	pubsub      PubSubService
}

func (c *Config) Validate() error {
	var result *multierror.Error
	if c.RepoManager == nil {
		result = multierror.Append(result, fmt.Errorf("missing repo manager"))
	}
	if c.Clock == nil {
		result = multierror.Append(result, fmt.Errorf("missing slot clock"))
	}
	if c.CctpTransmitter == nil {
		result = multierror.Append(result, fmt.Errorf("missing cctp transmitter"))
	}
	if c.MessagePublisher == nil {
		result = multierror.Append(result, fmt.Errorf("missing message publisher"))
	}
	if c.LocalChain == 0 {
		result = multierror.Append(result, fmt.Errorf("missing local chain"))
	}
	if domain.IsZeroAddress(c.UpgradeAuthority) {
		result = multierror.Append(result, fmt.Errorf("missing upgrade authority"))
	}
	if domain.IsZeroAddress(c.EngineProgramID) {
		result = multierror.Append(result, fmt.Errorf("missing engine program id"))
	}
	if domain.IsZeroAddress(c.TokenRouterProgramID) {
		result = multierror.Append(result, fmt.Errorf("missing token router program id"))
	}
	if c.ConfigCacheSize < 0 {
		result = multierror.Append(result, fmt.Errorf("config cache size must not be negative"))
	}
	return result.ErrorOrNil()
}

func (c *Config) AdminService() AdminService {
	if c.admin == nil {
		c.admin = newAdminService(c.getEngine())
	}
	return c.admin
}

func (c *Config) AuctionService() AuctionService {
	if c.auction == nil {
		c.auction = newAuctionService(c.getEngine())
	}
	return c.auction
}

func (c *Config) SettlementService() SettlementService {
	if c.settlement == nil {
		c.settlement = newSettlementService(c.getEngine())
	}
	return c.settlement
}

func (c *Config) TokenRouterService() TokenRouterService {
	if c.tokenRouter == nil {
		c.tokenRouter = newTokenRouterService(c.getEngine())
	}
	return c.tokenRouter
}

func (c *Config) AccountService() AccountService {
	if c.account == nil {
		c.account = newAccountService(c.getEngine(), c.EnableFaucet)
	}
	return c.account
}

func (c *Config) PubSubService() PubSubService {
	if c.pubsub == nil {
		c.pubsub = NewPubSubService(c.PubSub)
	}
	return c.pubsub
}

func (c *Config) getEngine() *engine {
	if c.engine == nil {
		size := c.ConfigCacheSize
		if size == 0 {
			size = defaultConfigCacheSize
		}
		publishers := make([]ports.EventPublisher, 0, len(c.EventPublishers)+1)
		if c.PubSub != nil {
			publishers = append(publishers, c.PubSub)
		}
		publishers = append(publishers, c.EventPublishers...)

		c.engine = newEngine(engineArgs{
			repoManager:          c.RepoManager,
			clock:                c.Clock,
			transmitter:          c.CctpTransmitter,
			messenger:            c.MessagePublisher,
			publishers:           publishers,
			localChain:           c.LocalChain,
			upgradeAuthority:     c.UpgradeAuthority,
			engineProgramID:      c.EngineProgramID,
			tokenRouterProgramID: c.TokenRouterProgramID,
			enactDelay:           c.EnactDelaySlots,
			configCacheSize:      size,
		})
	}
	return c.engine
}
