package application_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(topic string, message []byte) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

func TestEventPayloads(t *testing.T) {
	e := newTestEngine(t)
	o := e.newOrder(targetChain, 0)
	solver := randomAddress()
	token := e.newFundedAccount(solver)

	_, err := e.placeInitialOffer(o, solver, token, maxFee)
	require.NoError(t, err)

	event := e.events.last()
	require.NotEmpty(t, event.ID)
	require.Equal(t, application.TopicAuctionStarted, event.Topic)
	require.Zero(t, event.Slot)
	require.Equal(t, e.clock.Now().Unix(), event.Timestamp)
	require.Equal(t, o.hash.String(), event.Payload["vaa_hash"])
	require.Equal(t, token.String(), event.Payload["best_offer_token"])
	// Numbers are decoded as float64 from JSON.
	require.EqualValues(t, maxFee, event.Payload["offer_price"])
	require.EqualValues(t, securityDeposit, event.Payload["security_deposit"])
	require.EqualValues(t, targetChain, event.Payload["target_chain"])

	e.advanceSlots(7)
	_, err = e.execute(o, solver, token)
	require.NoError(t, err)

	event = e.events.last()
	require.Equal(t, application.TopicOrderExecuted, event.Topic)
	require.Equal(t, uint64(7), event.Slot)
	require.Equal(t, false, event.Payload["penalized"])
	require.EqualValues(t, amountIn-maxFee-initAuctionFee, event.Payload["user_amount"])
}

func TestEventPublisherFailure(t *testing.T) {
	e := newUninitializedTestEngine(t)

	failing := &mockEventPublisher{}
	failing.On("Publish", mock.Anything, mock.Anything).Return(fmt.Errorf("sink down"))
	working := &mockEventPublisher{}
	working.On("Publish", mock.Anything, mock.Anything).Return(nil)

	cfg := &application.Config{
		RepoManager:          inmemory.NewRepoManager(),
		Clock:                e.slotClock,
		CctpTransmitter:      e.transmitter,
		MessagePublisher:     e.publisher,
		EventPublishers:      []ports.EventPublisher{failing, working},
		LocalChain:           localChain,
		UpgradeAuthority:     e.owner,
		EngineProgramID:      e.engineProgramID,
		TokenRouterProgramID: e.tokenRouterProgramID,
	}
	accounts := cfg.AccountService()
	_, err := accounts.OpenTokenAccount(
		e.ctx, e.owner, application.OpenTokenAccountArgs{Address: e.feeRecipientToken},
	)
	require.NoError(t, err)

	err = cfg.AdminService().Initialize(e.ctx, e.owner, application.InitializeArgs{
		OwnerAssistant:    e.assistant,
		FeeRecipientToken: e.feeRecipientToken,
		AuctionParameters: testParams,
	})
	require.NoError(t, err)

	failing.AssertNumberOfCalls(t, "Publish", 1)
	working.AssertNumberOfCalls(t, "Publish", 1)

	msg := working.Calls[0].Arguments.Get(1).([]byte)
	var event application.Event
	require.NoError(t, json.Unmarshal(msg, &event))
	require.Equal(t, application.TopicCustodianUpdated, event.Topic)
	require.Equal(t, "initialize", event.Payload["action"])

	// Events are only published for committed operations.
	err = cfg.AdminService().SetPause(e.ctx, randomAddress(), true)
	require.Error(t, err)
	working.AssertNumberOfCalls(t, "Publish", 1)
}
