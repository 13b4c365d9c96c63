package bidding

// Config holds the scoring weights and rank-tier multipliers of the scorer.
type Config struct {
	ROASCap          float64 `mapstructure:"roas_cap"`
	ROASWeight       float64 `mapstructure:"roas_weight"`
	MarginWeight     float64 `mapstructure:"margin_weight"`
	ConversionCap    float64 `mapstructure:"conversion_cap"`
	ConversionWeight float64 `mapstructure:"conversion_weight"`
	InventoryBonus   float64 `mapstructure:"inventory_bonus"`
	InventoryBonusAt int     `mapstructure:"inventory_bonus_at"`

	TopRankCutoff    int     `mapstructure:"top_rank_cutoff"`
	MiddleRankCutoff int     `mapstructure:"middle_rank_cutoff"`
	TopBase          float64 `mapstructure:"top_base"`
	TopMarginFactor  float64 `mapstructure:"top_margin_factor"`
	MidBase          float64 `mapstructure:"mid_base"`
	MidMarginFactor  float64 `mapstructure:"mid_margin_factor"`
	LowBase          float64 `mapstructure:"low_base"`
	LowROASFactor    float64 `mapstructure:"low_roas_factor"`

	LimitedInventoryBelow int     `mapstructure:"limited_inventory_below"`
	LimitedInventoryScale float64 `mapstructure:"limited_inventory_scale"`

	ScaleUpEfficiency   float64 `mapstructure:"scale_up_efficiency"`
	ScaleDownEfficiency float64 `mapstructure:"scale_down_efficiency"`
}

// DefaultConfig returns the production scoring constants.
func DefaultConfig() Config {
	return Config{
		ROASCap:          3,
		ROASWeight:       0.3,
		MarginWeight:     0.4,
		ConversionCap:    50,
		ConversionWeight: 0.2,
		InventoryBonus:   0.1,
		InventoryBonusAt: 50,

		TopRankCutoff:    5,
		MiddleRankCutoff: 15,
		TopBase:          1.2,
		TopMarginFactor:  0.5,
		MidBase:          1.0,
		MidMarginFactor:  0.2,
		LowBase:          0.7,
		LowROASFactor:    0.1,

		LimitedInventoryBelow: 20,
		LimitedInventoryScale: 0.5,

		ScaleUpEfficiency:   0.95,
		ScaleDownEfficiency: 1.05,
	}
}
