package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"household-shopping/internal/apperr"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

func (s *server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.Catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) listTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.Templates.ListTemplates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var in templates.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.Templates.CreateTemplate(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *server) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.Templates.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var in templates.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.Templates.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.Templates.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) listLists(w http.ResponseWriter, r *http.Request) {
	var (
		lists []shopping.ShoppingList
		err   error
	)
	if st := r.URL.Query().Get("status"); st != "" {
		lists, err = s.Lists.ListByStatus(r.Context(), shopping.Status(st))
	} else {
		lists, err = s.Lists.ListMine(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

type createListRequest struct {
	Name       string          `json:"name"`
	Items      []shopping.Item `json:"items"`
	TemplateID string          `json:"templateId"`
	Multiplier float64         `json:"multiplier"`
}

func (s *server) createList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var (
		l   *shopping.ShoppingList
		err error
	)
	if req.TemplateID != "" {
		if len(req.Items) > 0 {
			writeError(w, r, apperr.Validation("api.createList", "items and templateId are mutually exclusive"))
			return
		}
		l, err = s.Lists.CreateFromTemplate(r.Context(), req.Name, req.TemplateID, multiplierOrDefault(req.Multiplier))
	} else {
		l, err = s.Lists.CreateList(r.Context(), req.Name, req.Items)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *server) getList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if details, _ := strconv.ParseBool(r.URL.Query().Get("details")); details {
		d, err := s.Lists.GetWithProductDetails(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
		return
	}
	l, err := s.Lists.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) updateList(w http.ResponseWriter, r *http.Request) {
	var p shopping.Patch
	if err := decode(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.Lists.UpdateList(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.Lists.DeleteList(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status shopping.Status `json:"status"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.Lists.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) addTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string  `json:"templateId"`
		Multiplier float64 `json:"multiplier"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.Lists.AddTemplate(r.Context(), chi.URLParam(r, "id"), req.TemplateID, multiplierOrDefault(req.Multiplier))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string  `json:"productId"`
		Quantity  float64 `json:"quantity"`
		Notes     string  `json:"notes"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item := shopping.Item{ProductID: req.ProductID, Quantity: req.Quantity, Notes: req.Notes}
	l, err := s.Lists.AddItem(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) updateItem(w http.ResponseWriter, r *http.Request) {
	var u shopping.ItemUpdate
	if err := decode(w, r, &u); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.Lists.UpdateItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) removeItem(w http.ResponseWriter, r *http.Request) {
	l, err := s.Lists.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) setItemChecked(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Checked *bool `json:"checked"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Checked == nil {
		writeError(w, r, apperr.Validation("api.setItemChecked", "checked is required"))
		return
	}
	l, err := s.Lists.SetItemChecked(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), *req.Checked)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func multiplierOrDefault(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}
