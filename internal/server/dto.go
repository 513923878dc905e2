package server

import "github.com/phanxgames/rolloc"

// WheelSummary is one entry of GET /v1/wheels.
type WheelSummary struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Items int    `json:"items"`
}

type WheelListResponse struct {
	Wheels []WheelSummary `json:"wheels"`
}

// WheelResponse is the layout returned by GET /v1/wheels/:id.
type WheelResponse struct {
	ID       string     `json:"id"`
	Title    string     `json:"title,omitempty"`
	Size     float64    `json:"size"`
	Radius   float64    `json:"radius"`
	Center   PointResp  `json:"center"`
	Anchor   AnchorResp `json:"anchor"`
	Roll     RollResp   `json:"roll"`
	Rotation float64    `json:"rotation"`
	Spinning bool       `json:"spinning"`
	Items    []ItemResp `json:"items"`
}

type PointResp struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type AnchorResp struct {
	Type          string  `json:"type"`
	PositionAngle float64 `json:"positionAngle"`
	Length        float64 `json:"length"`
	GapFromCenter float64 `json:"gapFromCenter,omitempty"`
	Width         float64 `json:"width,omitempty"`
}

type RollResp struct {
	Type     string          `json:"type"`
	Duration rolloc.Duration `json:"duration"`
}

type ItemResp struct {
	Index      int     `json:"index"`
	Value      string  `json:"value"`
	Text       string  `json:"text,omitempty"`
	Image      string  `json:"image,omitempty"`
	Color      string  `json:"color,omitempty"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
}

// SpinResponse is returned by POST /v1/wheels/:id/spin once the spin lands.
type SpinResponse struct {
	Wheel          string  `json:"wheel"`
	Seq            uint64  `json:"seq"`
	Index          int     `json:"index"`
	Value          string  `json:"value"`
	Text           string  `json:"text"`
	DurationMS     int64   `json:"duration_ms"`
	Delta          float64 `json:"delta"`
	Rotation       float64 `json:"rotation"`
	EffectiveAngle float64 `json:"effective_angle"`
	RequestID      string  `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
