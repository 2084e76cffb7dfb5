package category

import (
	"net/http"

	"github.com/frahmantamala/expense-dashboard/internal/transport"
)

type ServiceAPI interface {
	GetAllCategories() []CategoryResponse
	GetCategoryByName(name string) (*CategoryResponse, bool)
	IsValidCategory(name string) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: h.Service.GetAllCategories(),
	})
}
