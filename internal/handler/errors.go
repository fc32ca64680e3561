package handler

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// Localized error messages.
const (
	MsgProductNotFound  = "Mahsulot topilmadi"
	MsgCartItemNotFound = "Savatdagi mahsulot topilmadi"
	MsgUpstreamFailure  = "Katalog bilan texnik nosozlik. Tez orada tuzatamiz."
	MsgInternalError    = "Ichki xatolik yuz berdi"
	MsgInvalidBody      = "Noto'g'ri so'rov"
	MsgInvalidProductID = "Noto'g'ri mahsulot ID"
	MsgStockUnavailable = "Mahsulot (ID: %d) tugagan yoki topilmadi."
	MsgStockShort       = "Mahsulot (%s) uchun yetarli miqdor yo'q. Mavjud: %d"
)

// writeServiceError maps a service error to its HTTP status. notFound is the
// message used for model.ErrNotFound.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error, notFound string) {
	var (
		validation *model.ValidationError
		upstream   *model.UpstreamError
		stock      *model.StockError
	)

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.As(err, &stock):
		writeError(w, http.StatusConflict, stockMessage(stock))
	case errors.As(err, &upstream):
		log.Error("commerce backend failure", zap.String("operation", upstream.Op), zap.Error(err))
		writeError(w, http.StatusBadGateway, MsgUpstreamFailure)
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, MsgInternalError)
	}
}

func stockMessage(e *model.StockError) string {
	if e.Reason == model.StockInsufficient {
		return fmt.Sprintf(MsgStockShort, e.ProductName, e.Available)
	}
	return fmt.Sprintf(MsgStockUnavailable, e.ProductID)
}
