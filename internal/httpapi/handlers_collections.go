package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vellumhq/vellum/pkg/types"
)

type createCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	claims := claimsFrom(r)
	col, err := s.collections.Create(req.Name, req.Description, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	col, err := s.collections.Get(chi.URLParam(r, "collectionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (s *Server) handleAddAttribute(w http.ResponseWriter, r *http.Request) {
	var req types.CreateAttributeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	attr, err := s.collections.AddAttribute(chi.URLParam(r, "collectionID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attr)
}
