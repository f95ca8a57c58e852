package grpchandler

import (
	"context"
	"errors"

	"github.com/fastfill-network/matching-engine/internal/core/application"
	"github.com/fastfill-network/matching-engine/pkg/api"
)

type webhookHandler struct {
	webhookSvc application.PubSubService
}

// NewWebhookHandler is a constructor function returning a
// WebhookServiceServer.
func NewWebhookHandler(webhookSvc application.PubSubService) api.WebhookServiceServer {
	return newWebhookHandler(webhookSvc)
}

func newWebhookHandler(webhookSvc application.PubSubService) *webhookHandler {
	return &webhookHandler{webhookSvc}
}

func (h *webhookHandler) AddWebhook(
	ctx context.Context, req *api.AddWebhookRequest,
) (*api.AddWebhookResponse, error) {
	return h.addWebhook(ctx, req)
}

func (h *webhookHandler) RemoveWebhook(
	ctx context.Context, req *api.RemoveWebhookRequest,
) (*api.RemoveWebhookResponse, error) {
	return h.removeWebhook(ctx, req)
}

func (h *webhookHandler) ListWebhooks(
	ctx context.Context, req *api.ListWebhooksRequest,
) (*api.ListWebhooksResponse, error) {
	return h.listWebhooks(ctx, req)
}

func (h *webhookHandler) addWebhook(
	ctx context.Context, req *api.AddWebhookRequest,
) (*api.AddWebhookResponse, error) {
	if len(req.Endpoint) <= 0 {
		return nil, invalidArgument(errors.New("missing endpoint"))
	}
	hookID, err := h.webhookSvc.AddWebhook(ctx, req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		return nil, err
	}
	return &api.AddWebhookResponse{Id: hookID}, nil
}

func (h *webhookHandler) removeWebhook(
	ctx context.Context, req *api.RemoveWebhookRequest,
) (*api.RemoveWebhookResponse, error) {
	if len(req.Id) <= 0 {
		return nil, invalidArgument(errors.New("missing webhook id"))
	}
	if err := h.webhookSvc.RemoveWebhook(ctx, req.Id); err != nil {
		return nil, err
	}
	return &api.RemoveWebhookResponse{}, nil
}

func (h *webhookHandler) listWebhooks(
	ctx context.Context, req *api.ListWebhooksRequest,
) (*api.ListWebhooksResponse, error) {
	hooks, err := h.webhookSvc.ListWebhooks(ctx, req.Topic)
	if err != nil {
		return nil, err
	}
	return &api.ListWebhooksResponse{Webhooks: webhookList(hooks).toApi()}, nil
}
