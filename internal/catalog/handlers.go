package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/common"
)

var validate = validator.New()

// Handler exposes the priced catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

type buyerHeaders struct {
	BuyerID     string `validate:"required,uuid"`
	SalesOffice string `validate:"required"`
}

// BuyerFromRequest resolves the buyer context the upstream gateway attaches
// to every request.
func BuyerFromRequest(r *http.Request) (BuyerContext, error) {
	headers := buyerHeaders{
		BuyerID:     strings.TrimSpace(r.Header.Get("X-Buyer-ID")),
		SalesOffice: strings.TrimSpace(r.Header.Get("X-Sales-Office")),
	}
	if err := validate.Struct(headers); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Field() {
			case "BuyerID":
				if fieldErrs[0].Tag() == "uuid" {
					return BuyerContext{}, errors.New("X-Buyer-ID must be a UUID")
				}
				return BuyerContext{}, errors.New("missing X-Buyer-ID header")
			case "SalesOffice":
				return BuyerContext{}, errors.New("missing X-Sales-Office header")
			}
		}
		return BuyerContext{}, err
	}
	buyerID, err := uuid.Parse(headers.BuyerID)
	if err != nil {
		return BuyerContext{}, errors.New("X-Buyer-ID must be a UUID")
	}
	return BuyerContext{
		BuyerID:          buyerID,
		Organization:     strings.TrimSpace(r.Header.Get("X-Organization")),
		SalesOffice:      headers.SalesOffice,
		RetailRestricted: strings.EqualFold(r.Header.Get("X-Retail-Restricted"), "true"),
	}, nil
}

// Products handles GET /api/v1/products: the fully priced catalog for the
// requesting buyer.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog service not configured", nil)
		return
	}
	buyer, err := BuyerFromRequest(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}
	page, limit := common.ParsePagination(r, 0)
	result, err := h.service.ListPricedProducts(r.Context(), buyer, page, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.NewPagination(result.Page, result.Limit, result.Total),
	})
}

// Product handles GET /api/v1/products/{productID}: a single priced product.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog service not configured", nil)
		return
	}
	buyer, err := BuyerFromRequest(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "productID must be a UUID", nil)
		return
	}
	quote, err := h.service.GetPricedProduct(r.Context(), buyer, productID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = common.CodeInternal
		}
		message := appErr.Message
		if message == "" {
			message = "internal error"
		}
		common.JSONError(w, status, code, message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "internal error", nil)
}
