package handler

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/koicare/pondflow/internal/domain/valueobject"
	"github.com/koicare/pondflow/internal/interface/http/dto"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/logger"
	"github.com/koicare/pondflow/internal/pkg/apperror"
	"github.com/koicare/pondflow/internal/pkg/callbacksig"
	"github.com/koicare/pondflow/internal/usecase/payment"
)

const maxCallbackBody = 64 << 10

type PaymentHandler struct {
	applyUC  *payment.ApplyPaymentUseCase
	verifier *callbacksig.Verifier
}

func NewPaymentHandler(applyUC *payment.ApplyPaymentUseCase, verifier *callbacksig.Verifier) *PaymentHandler {
	return &PaymentHandler{applyUC: applyUC, verifier: verifier}
}

// Callback handles POST /payments/callback from the gateway. The body must be
// signed; the transition is applied as the SYSTEM actor.
func (h *PaymentHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
	if err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := h.verifier.Verify(body, c.GetHeader(callbacksig.Header)); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"ip": c.ClientIP(),
		}).Warn("Payment callback with bad signature")
		response.Unauthorized(c, "invalid signature")
		return
	}

	var req dto.PaymentCallbackRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	kind, amount, id, err := parsePaymentTarget(req.EntityKind, req.AmountKind, req.EntityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.applyUC.OnPaymentConfirmed(c.Request.Context(), kind, id, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPaymentResponse(res))
}

// Mark handles manual settlement by a manager, for payments taken outside the gateway.
// The entity kind comes from the route.
func (h *PaymentHandler) Mark(kind valueobject.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := actor(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.MarkPaymentRequest
		if !bind(c, &req) {
			return
		}
		amount, err := valueobject.NewAmountKind(req.AmountKind)
		if err != nil {
			response.Error(c, err)
			return
		}

		res, err := h.applyUC.Execute(c.Request.Context(), payment.ApplyPaymentInput{
			Actor:      a,
			EntityKind: kind,
			EntityID:   id,
			AmountKind: amount,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.ToPaymentResponse(res))
	}
}

func parsePaymentTarget(rawKind, rawAmount, rawID string) (valueobject.EntityKind, valueobject.AmountKind, uuid.UUID, error) {
	kind := valueobject.EntityKind(rawKind)
	if !kind.HasPayment() {
		return "", "", uuid.Nil, apperror.Validation("entity_kind must be project or maintenance_request")
	}
	amount, err := valueobject.NewAmountKind(rawAmount)
	if err != nil {
		return "", "", uuid.Nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", "", uuid.Nil, apperror.Validation("entity_id must be a UUID")
	}
	return kind, amount, id, nil
}
