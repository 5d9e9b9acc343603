package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency
// and reuse; defaults mirror the engine configuration defaults.

type AnomalyQuery struct {
	AssetID   string  `query:"asset_id" json:"asset_id" validate:"required"`
	Source    string  `query:"source" json:"source" default:"defi" validate:"oneof=defi tradfi"`
	Window    int     `query:"window" json:"window" default:"3" validate:"gte=2,lte=60"`
	Threshold float64 `query:"threshold" json:"threshold" default:"4.303" validate:"gt=0"`
}

type CrossCorrQuery struct {
	AssetID string `query:"asset_id" json:"asset_id" validate:"required"`
	MaxLag  int    `query:"max_lag" json:"max_lag" default:"7" validate:"gte=1,lte=30"`
}

type PriceQuery struct {
	AssetID string `query:"asset_id" json:"asset_id" validate:"required"`
}

type SummaryQuery struct {
	AssetType string `query:"asset_type" json:"asset_type"`
}
