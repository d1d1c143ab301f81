package handler

import (
	"dronediag/internal/model"
	"dronediag/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// CatalogHandler serves the read-only reference data
type CatalogHandler struct {
	datasetSvc *service.DatasetService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(datasetSvc *service.DatasetService) *CatalogHandler {
	return &CatalogHandler{datasetSvc: datasetSvc}
}

// ListCategories handles GET /v1/categories
//
//	@Summary	Categories with their result page data
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}	service.CategoryDetail
//	@Router		/categories [get]
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.datasetSvc.Categories())
}

// GetCategory handles GET /v1/categories/{key}
//
//	@Summary	One category with template, primary and alternatives
//	@Tags		catalog
//	@Produce	json
//	@Param		key	path		string	true	"category key"
//	@Success	200	{object}	service.CategoryDetail
//	@Failure	404	{object}	map[string]string
//	@Router		/categories/{key} [get]
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	detail, err := h.datasetSvc.Category(model.CategoryKey(mux.Vars(r)["key"]))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ListProducts handles GET /v1/products
//
//	@Summary	Catalog products
//	@Tags		catalog
//	@Produce	json
//	@Param		category	query	string	false	"filter by category tag"
//	@Success	200			{array}	model.Product
//	@Router		/products [get]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	tag := model.CategoryKey(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, h.datasetSvc.Products(tag))
}

// GetProduct handles GET /v1/products/{id}
//
//	@Summary	One catalog product
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"product id"
//	@Success	200	{object}	model.Product
//	@Failure	404	{object}	map[string]string
//	@Router		/products/{id} [get]
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.datasetSvc.Product(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetQuestionSet handles GET /v1/question-sets/{id}
//
//	@Summary	A question set definition
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"question set id"
//	@Success	200	{object}	model.QuestionSet
//	@Failure	404	{object}	map[string]string
//	@Router		/question-sets/{id} [get]
func (h *CatalogHandler) GetQuestionSet(w http.ResponseWriter, r *http.Request) {
	qs, err := h.datasetSvc.QuestionSet(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}
