package server

import (
	"github.com/shanehull/batterydb/internal/pricing"
	"github.com/shanehull/batterydb/internal/ranking"
	"github.com/shanehull/batterydb/internal/types"
)

type BatteryResponse struct {
	types.Battery
	DisplayPrice string   `json:"display_price"`
	Markets      []string `json:"markets"`
}

type BatteryListResponse struct {
	Batteries []BatteryResponse `json:"batteries"`
	Total     int               `json:"total"`
	Sort      ranking.Key       `json:"sort"`
	Dir       ranking.Direction `json:"dir"`
}

type BrandListResponse struct {
	Brands []types.Brand `json:"brands"`
}

type BrandResponse struct {
	types.Brand
	Batteries []BatteryResponse `json:"batteries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toBatteryResponse(b types.Battery) BatteryResponse {
	return BatteryResponse{
		Battery:      b,
		DisplayPrice: pricing.Display(b),
		Markets:      pricing.Markets(b),
	}
}

func toBatteryResponses(batteries []types.Battery) []BatteryResponse {
	out := make([]BatteryResponse, 0, len(batteries))
	for _, b := range batteries {
		out = append(out, toBatteryResponse(b))
	}
	return out
}
