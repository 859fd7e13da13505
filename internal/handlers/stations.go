package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/stations"
)

type StationHandler struct {
	list []stations.Station
}

func NewStationHandler(list []stations.Station) *StationHandler {
	return &StationHandler{list: list}
}

func (h *StationHandler) Register(api *mux.Router) {
	api.HandleFunc("/stations", h.List).Methods(http.MethodGet)
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"stations": h.list})
}
