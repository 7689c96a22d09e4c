package outbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/project/circulation/config"
	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/internal/usecase/ledger"
	"github.com/project/circulation/internal/usecase/repository"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const contentType = "application/json"

var errFailRequest = errors.New("not 2xx response")

// Reconciler repairs a copy status from the ledger.
type Reconciler interface {
	Reconcile(ctx context.Context, itemID string) (entity.ItemStatus, error)
}

// NewGlobalHandler posts catalog and circulation events to the configured
// feeds and runs reconcile messages against the ledger. An event kind with
// no feed URL is acknowledged without delivery.
func NewGlobalHandler(client *http.Client, cfg config.Outbox, reconciler Reconciler) GlobalHandler {
	return func(kind repository.OutboxKind) (KindHandler, error) {
		switch kind {
		case repository.OutboxKindAuthor:
			return feedHandler(client, cfg.AuthorSendURL), nil
		case repository.OutboxKindBook:
			return feedHandler(client, cfg.BookSendURL), nil
		case repository.OutboxKindTransaction:
			return feedHandler(client, cfg.TransactionSendURL), nil
		case repository.OutboxKindReconcile:
			return reconcileHandler(reconciler), nil
		default:
			return nil, fmt.Errorf("unsupported outbox kind: %d", kind)
		}
	}
}

func feedHandler(client *http.Client, url string) KindHandler {
	return func(ctx context.Context, data []byte) error {
		if url == "" {
			return nil
		}

		if !json.Valid(data) {
			return errors.New("can not deserialize data in feed outbox handler")
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("can not build request: %w", err)
		}
		request.Header.Set("Content-Type", contentType)

		response, err := client.Do(request)
		if err != nil {
			return fmt.Errorf("can not make post request to given url: %w", err)
		}
		defer response.Body.Close()

		if response.StatusCode/100 != 2 {
			return fmt.Errorf("%w: %d", errFailRequest, response.StatusCode)
		}

		return nil
	}
}

func reconcileHandler(reconciler Reconciler) KindHandler {
	return func(ctx context.Context, data []byte) error {
		var message ledger.ReconcileMessage
		if err := json.Unmarshal(data, &message); err != nil {
			return fmt.Errorf("can not deserialize data in reconcile outbox handler: %w", err)
		}

		_, err := reconciler.Reconcile(ctx, message.ItemID)
		return err
	}
}
