// Package httpapi serves the HarborGuide HTTP API on hertz.
package httpapi

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/alexanderramin/harborguide/internal/ingest"
	"github.com/alexanderramin/harborguide/internal/intelligence"
	"github.com/alexanderramin/harborguide/internal/logging"
	"github.com/alexanderramin/harborguide/internal/service"
)

// SnapshotCounter reports how many keyed snapshots are cached.
type SnapshotCounter interface {
	Len() int
}

// Handler holds the services behind every route.
type Handler struct {
	snapshots SnapshotCounter
	contexts  service.ContextService
	kpis      service.KPIService
	asker     intelligence.AskService
}

func NewHandler(
	snapshots SnapshotCounter,
	contexts service.ContextService,
	kpis service.KPIService,
	asker intelligence.AskService,
) *Handler {
	return &Handler{
		snapshots: snapshots,
		contexts:  contexts,
		kpis:      kpis,
		asker:     asker,
	}
}

type askRequest struct {
	Question string `json:"question"`
	ReportID string `json:"reportId,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

type contextResponse struct {
	ReportID string `json:"reportId"`
	Cards    string `json:"cards"`
	Included int    `json:"included"`
	Total    int    `json:"total"`
	Fallback bool   `json:"fallback"`
}

func errorJSON(c *app.RequestContext, status int, msg string) {
	c.JSON(status, utils.H{"error": msg})
}

func (h *Handler) Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{"ok": true, "snapshots": h.snapshots.Len()})
}

// Upload caches the posted visuals under their report id.
func (h *Handler) Upload(ctx context.Context, c *app.RequestContext) {
	var upload ingest.Upload
	if err := c.BindJSON(&upload); err != nil {
		errorJSON(c, consts.StatusBadRequest, ingest.ErrInvalidUpload.Error())
		return
	}
	snap, err := upload.Snapshot()
	if err != nil {
		if errors.Is(err, ingest.ErrInvalidUpload) {
			errorJSON(c, consts.StatusBadRequest, err.Error())
			return
		}
		errorJSON(c, consts.StatusBadRequest, "invalid visual data: "+err.Error())
		return
	}
	if err := h.contexts.Ingest(ctx, upload.ReportID, snap); err != nil {
		logging.FromContext(ctx).Error("ingest failed", "report_id", upload.ReportID, "error", err)
		errorJSON(c, consts.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(consts.StatusOK, utils.H{"ok": true, "count": len(upload.Visuals)})
}

// Context returns the card digest for ?reportId=, falling back to the most
// recent snapshot.
func (h *Handler) Context(ctx context.Context, c *app.RequestContext) {
	reportID := c.Query("reportId")
	res, err := h.contexts.Cards(ctx, reportID)
	if err != nil {
		logging.FromContext(ctx).Error("building cards failed", "report_id", reportID, "error", err)
		errorJSON(c, consts.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(consts.StatusOK, contextResponse{
		ReportID: reportID,
		Cards:    res.Text,
		Included: res.Included,
		Total:    res.Total,
		Fallback: !res.Hit && res.SnapshotID != "",
	})
}

func (h *Handler) Ask(ctx context.Context, c *app.RequestContext) {
	var req askRequest
	if err := c.BindJSON(&req); err != nil {
		errorJSON(c, consts.StatusBadRequest, "Missing 'question' in JSON body")
		return
	}

	var mode intelligence.Mode
	if req.Mode != "" {
		m, err := intelligence.ParseMode(req.Mode)
		if err != nil {
			errorJSON(c, consts.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	ans, err := h.asker.Ask(ctx, intelligence.AskRequest{
		Question:  req.Question,
		SourceKey: req.ReportID,
		Mode:      mode,
	})
	switch {
	case errors.Is(err, intelligence.ErrEmptyQuestion):
		errorJSON(c, consts.StatusBadRequest, "Missing 'question' in JSON body")
		return
	case err != nil:
		logging.FromContext(ctx).Error("ask failed", "error", err)
		errorJSON(c, consts.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(consts.StatusOK, ans)
}

func (h *Handler) KPIs(ctx context.Context, c *app.RequestContext) {
	snap, err := h.kpis.Snapshot(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("kpi snapshot failed", "error", err)
		errorJSON(c, consts.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(consts.StatusOK, snap)
}

// DummyKPIs serves a fixed payload so a dashboard can render without data.
func (h *Handler) DummyKPIs(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, dummyKPIs)
}

var dummyKPIs = utils.H{
	"kpis": utils.H{
		"arrival_accuracy": utils.H{"value": 72.3, "delta": -1.7, "unit": "%", "window": "WoW"},
		"within_4h":        utils.H{"value": 68.9, "delta": -0.9, "unit": "%", "window": "WoW"},
		"avg_berth_h":      utils.H{"value": 36.4, "delta": 1.2, "unit": "h", "window": "WoW"},
		"carbon_tonnes":    utils.H{"value": 61.1, "delta": 2.2, "unit": "t", "window": "MTD"},
	},
	"topVessels": []utils.H{
		{"vessel": "A", "bu": "APAC", "variance_h": 6.2, "accuracy": "N", "atb": "2025-10-12"},
		{"vessel": "B", "bu": "EMEA", "variance_h": 5.8, "accuracy": "N", "atb": "2025-10-11"},
	},
}
