package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mosvani/blocktally/pkg/block"
)

// Handler serves the read-only status endpoints for one engine.
type Handler struct {
	guard Guard
}

// NewHandler creates a handler over the guarded engine.
func NewHandler(guard Guard) *Handler {
	return &Handler{guard: guard}
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthyResponse(map[string]string{"service": "blocktally"}))
}

// Node reports the identity of the accounted node.
func (h *Handler) Node(w http.ResponseWriter, r *http.Request) {
	h.guard.Mu.RLock()
	info := buildNodeInfo(h.guard.Engine)
	h.guard.Mu.RUnlock()

	JSON(w, http.StatusOK, OKResponse(info))
}

// Usage reports the node-wide aggregate usage.
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	h.guard.Mu.RLock()
	info := buildUsageInfo(h.guard.Engine)
	h.guard.Mu.RUnlock()

	JSON(w, http.StatusOK, OKResponse(info))
}

// Datasets lists the aggregate usage of every dataset on the node.
func (h *Handler) Datasets(w http.ResponseWriter, r *http.Request) {
	h.guard.Mu.RLock()
	list := buildDatasetList(h.guard.Engine)
	h.guard.Mu.RUnlock()

	JSON(w, http.StatusOK, OKResponse(list))
}

// Dataset reports one dataset's aggregate usage and its blocks.
func (h *Handler) Dataset(w http.ResponseWriter, r *http.Request) {
	id := block.DatasetID(chi.URLParam(r, "id"))

	h.guard.Mu.RLock()
	detail, ok := buildDatasetDetail(h.guard.Engine, id)
	h.guard.Mu.RUnlock()

	if !ok {
		JSON(w, http.StatusNotFound, ErrorResponse("dataset not found: "+string(id)))
		return
	}
	JSON(w, http.StatusOK, OKResponse(detail))
}

// Block looks up one opaque block by name.
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	id := block.OpaqueBlock{Name: name}

	h.guard.Mu.RLock()
	rec, ok := h.guard.Engine.GetBlock(id)
	h.guard.Mu.RUnlock()

	if !ok {
		JSON(w, http.StatusNotFound, ErrorResponse("block not found: "+name))
		return
	}
	JSON(w, http.StatusOK, OKResponse(BlockInfo{
		ID:       id.String(),
		Level:    rec.Level.String(),
		MemSize:  rec.MemSize,
		DiskSize: rec.DiskSize,
	}))
}
