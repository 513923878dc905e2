package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phanxgames/rolloc"
	"github.com/phanxgames/rolloc/internal/catalog"
)

// maxSpinBody bounds the POST /spin request body.
const maxSpinBody = 4 << 10

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/v1/wheels", h.ListWheels)
	e.GET("/v1/wheels/:id", h.GetWheel)
	e.GET("/v1/wheels/:id/svg", h.GetSVG)
	e.POST("/v1/wheels/:id/spin", h.Spin)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListWheels(c echo.Context) error {
	defs := h.svc.Definitions()
	resp := WheelListResponse{Wheels: make([]WheelSummary, len(defs))}
	for i, d := range defs {
		resp.Wheels[i] = WheelSummary{ID: d.ID, Title: d.Title, Items: len(d.Options.Items)}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetWheel(c echo.Context) error {
	id := c.Param("id")
	def, err := h.svc.Definition(id)
	if err != nil {
		return mapError(c, err)
	}
	w, err := h.svc.Wheel(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toWheelResponse(id, def.Title, w))
}

func (h *Handler) GetSVG(c echo.Context) error {
	doc, err := h.svc.SVG(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.Blob(http.StatusOK, "image/svg+xml", []byte(doc))
}

func (h *Handler) Spin(c echo.Context) error {
	opts, err := decodeSpinOptions(c.Request().Body)
	if err != nil {
		return mapError(c, err)
	}

	res, err := h.svc.SpinAndWait(c.Request().Context(), c.Param("id"), opts)
	if err != nil {
		return mapError(c, err)
	}

	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusOK, SpinResponse{
		Wheel:          c.Param("id"),
		Seq:            res.Spin.Seq,
		Index:          res.Index,
		Value:          res.Item.Value,
		Text:           res.Item.Label(),
		DurationMS:     res.Spin.Duration.Milliseconds(),
		Delta:          res.Spin.Delta,
		Rotation:       res.Spin.Rotation,
		EffectiveAngle: res.Spin.EffectiveAngle(),
		RequestID:      requestID,
	})
}

// decodeSpinOptions reads an optional JSON body. An empty body keeps the
// wheel defaults; unknown keys are rejected.
func decodeSpinOptions(body io.Reader) (rolloc.SpinOptions, error) {
	var opts rolloc.SpinOptions
	if body == nil {
		return opts, nil
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxSpinBody+1))
	if err != nil {
		return opts, fmt.Errorf("%w: read body: %v", rolloc.ErrConfiguration, err)
	}
	if len(raw) > maxSpinBody {
		return opts, fmt.Errorf("%w: body exceeds %d bytes", rolloc.ErrConfiguration, maxSpinBody)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return opts, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, rolloc.ErrConfiguration) {
			return opts, err
		}
		return opts, fmt.Errorf("%w: %v", rolloc.ErrConfiguration, err)
	}
	return opts, nil
}

func toWheelResponse(id, title string, w *rolloc.Wheel) WheelResponse {
	l := w.Layout()
	cfg := w.Config()

	anchor := AnchorResp{PositionAngle: cfg.Anchor.PositionAngle, Length: cfg.Anchor.Length}
	switch s := cfg.Anchor.Shape.(type) {
	case rolloc.TriangleAnchor:
		anchor.Type = "triangle"
		anchor.Width = s.Width
	case rolloc.LineAnchor:
		anchor.Type = "line"
		anchor.GapFromCenter = s.GapFromCenter
	}

	roll := RollResp{Type: "anchor", Duration: cfg.Roll.Duration}
	if cfg.Roll.Target == rolloc.RotateWheel {
		roll.Type = "circle"
	}

	items := make([]ItemResp, len(cfg.Items))
	for i, it := range cfg.Items {
		items[i] = ItemResp{
			Index:      i,
			Value:      it.Value,
			Text:       it.Text,
			Image:      it.Image,
			Color:      it.Color,
			StartAngle: it.StartAngle,
			EndAngle:   it.EndAngle,
		}
	}

	return WheelResponse{
		ID:       id,
		Title:    title,
		Size:     cfg.Size,
		Radius:   l.Radius,
		Center:   PointResp{X: l.Center.X, Y: l.Center.Y},
		Anchor:   anchor,
		Roll:     roll,
		Rotation: w.Rotation(),
		Spinning: w.Spinning(),
		Items:    items,
	}
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, rolloc.ErrConfiguration):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, rolloc.ErrSpinInProgress):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		slog.Warn("spin wait abandoned", "request_id", requestID, "error", err)
		return c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "spin did not land in time"})
	case errors.Is(err, ErrNoResult):
		slog.Error("spin without result", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
