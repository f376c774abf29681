package webhook

import (
	"errors"
	"net/http"

	"github.com/payblock/payblock-go/libs/clients/payblock"
	"github.com/payblock/payblock-go/libs/handlers"
	"github.com/payblock/payblock-go/libs/inputs"
	"github.com/payblock/payblock-go/libs/logging"
	"github.com/payblock/payblock-go/libs/middleware"
	"github.com/payblock/payblock-go/libs/requestutils"
	"github.com/payblock/payblock-go/libs/responses"
	"github.com/go-chi/chi"
)

var (
	// ErrMissingSignature - the callback did not carry a signature header
	ErrMissingSignature = errors.New("missing webhook signature")
	// ErrInvalidSignature - the callback signature did not match the body
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Router - handles callbacks from the payblock gateway plus the operator event listing
func Router(service *Service) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.NewServiceCtx(service))
	r.Method("POST", "/", middleware.InstrumentHandler("HandleWebhookEvent", HandleWebhookEvent(service)))
	r.Method("GET", "/events", middleware.InstrumentHandler("ListWebhookEvents",
		middleware.SimpleTokenAuthorizedOnly(ListWebhookEvents(service))))
	return r
}

// HandleWebhookEvent is the handler for payblock transaction callbacks
func HandleWebhookEvent(service *Service) handlers.AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		ctx := r.Context()
		// get logger
		sublogger := logging.Logger(ctx, "webhook").With().
			Str("func", "HandleWebhookEvent").
			Logger()

		body, err := requestutils.Read(r.Context(), r.Body)
		if err != nil {
			sublogger.Error().Err(err).Msg("failed to read request body")
			return handlers.WrapError(err, "error reading request body", http.StatusServiceUnavailable)
		}

		signature := r.Header.Get("X-Signature")
		if signature == "" {
			sublogger.Warn().Msg("callback arrived without a signature")
			return handlers.WrapError(ErrMissingSignature, "missing webhook signature", http.StatusUnauthorized)
		}

		verified, err := payblock.VerifyWebhookSignature(service.secret, body, signature)
		if err != nil {
			sublogger.Error().Err(err).Msg("failed to verify webhook signature")
			return handlers.WrapError(err, "error verifying webhook signature", http.StatusInternalServerError)
		}
		if !verified {
			sublogger.Warn().Msg("callback signature did not match the body")
			return handlers.WrapError(ErrInvalidSignature, "invalid webhook signature", http.StatusUnauthorized)
		}

		event, err := payblock.ParseWebhookEvent(ctx, body)
		if err != nil {
			sublogger.Warn().Err(err).Msg("failed to decode and validate the payload")
			return handlers.WrapValidationError(err)
		}

		processed, err := service.ProcessEvent(ctx, *event)
		if err != nil {
			sublogger.Error().Err(err).
				Str("request_id", event.RequestID).
				Msg("failed to process webhook event")
			return handlers.WrapError(err, "error processing webhook event", http.StatusInternalServerError)
		}
		if !processed {
			sublogger.Info().
				Str("request_id", event.RequestID).
				Msg("duplicate callback acknowledged")
			return handlers.RenderContent(ctx, "event already received", w, http.StatusOK)
		}

		return handlers.RenderContent(ctx, "event received", w, http.StatusOK)
	}
}

// ListWebhookEvents is the handler for the operator event listing
// /events?page=0&items=10&order=receivedAt.asc
func ListWebhookEvents(service *Service) handlers.AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		ctx, pagination, err := inputs.NewPagination(r.Context(), r.URL.String(), new(EventRecord))
		if err != nil {
			return handlers.WrapValidationError(err)
		}

		events, total := service.ListEvents(ctx, pagination)

		response := &responses.PaginationResponse{
			Page:    pagination.Page,
			Items:   pagination.Items,
			MaxPage: total/pagination.Items - 1, // 0 indexed
			Ordered: pagination.RawOrder,
			Data:    events,
		}

		if err := response.Render(ctx, w, http.StatusOK); err != nil {
			return handlers.WrapError(err, "error rendering response", http.StatusInternalServerError)
		}

		return nil
	}
}
