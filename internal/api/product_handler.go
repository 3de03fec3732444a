package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lpfarias/essay-api/internal/api/shared"
	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

// ProductHandler handles product-related API requests.
type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

// NewProductHandler creates a new ProductHandler with the given dependencies.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
	}
}

// Create handles the POST /products endpoint.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	product, err := h.productService.Create(r.Context(), service.ProductData{
		Name:           req.Name,
		Code:           req.Code,
		Course:         domain.Course(req.Course),
		ExpirationTime: time.Duration(req.ExpirationDays) * 24 * time.Hour,
	})
	if err != nil {
		HandleAPIError(w, r, err, "product creation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, product)
}

// Get handles the GET /products/{id} endpoint.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	product, err := h.productService.Get(r.Context(), productID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, product)
}

// List handles the GET /products endpoint.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.ProductFilter

	course, err := parseCourseParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter.Course = course

	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.ProductStatus(v)
		filter.Status = &status
	}

	products, err := h.productService.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		HandleAPIError(w, r, err, "product listing failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, products)
}

// Update handles the PATCH /products/{id} endpoint.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateProductRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	data := service.ProductUpdateData{Name: req.Name}
	if req.Course != nil {
		course := domain.Course(*req.Course)
		data.Course = &course
	}
	if req.ExpirationDays != nil {
		expiration := time.Duration(*req.ExpirationDays) * 24 * time.Hour
		data.ExpirationTime = &expiration
	}
	if req.Status != nil {
		status := domain.ProductStatus(*req.Status)
		data.Status = &status
	}

	product, err := h.productService.Update(r.Context(), productID, data)
	if err != nil {
		HandleAPIError(w, r, err, "product update failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, product)
}

// Deactivate handles the DELETE /products/{id} endpoint. The product goes off
// sale; existing subscriptions keep running.
func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	productID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	product, err := h.productService.Deactivate(r.Context(), productID)
	if err != nil {
		HandleAPIError(w, r, err, "product deactivation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, product)
}
