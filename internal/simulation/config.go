package simulation

// Config holds the elasticity and threshold constants of the simulator.
type Config struct {
	// PriceElasticity is the exponent applied to the price ratio when projecting
	// conversions after a price change.
	PriceElasticity float64 `mapstructure:"price_elasticity"`

	HighRiskROASBelow        float64 `mapstructure:"high_risk_roas_below"`
	HighRiskInventoryBelow   int     `mapstructure:"high_risk_inventory_below"`
	MediumRiskROASBelow      float64 `mapstructure:"medium_risk_roas_below"`
	MediumRiskInventoryBelow int     `mapstructure:"medium_risk_inventory_below"`

	LargeSpendIncreasePercent float64 `mapstructure:"large_spend_increase_percent"`

	StrongROASGainPercent   float64 `mapstructure:"strong_roas_gain_percent"`
	ROASDeclinePercent      float64 `mapstructure:"roas_decline_percent"`
	StrongProfitGainPercent float64 `mapstructure:"strong_profit_gain_percent"`
	MaxRiskFactors          int     `mapstructure:"max_risk_factors"`
}

func DefaultConfig() Config {
	return Config{
		PriceElasticity: 0.5,

		HighRiskROASBelow:        1.0,
		HighRiskInventoryBelow:   20,
		MediumRiskROASBelow:      1.5,
		MediumRiskInventoryBelow: 50,

		LargeSpendIncreasePercent: 50,

		StrongROASGainPercent:   10,
		ROASDeclinePercent:      -5,
		StrongProfitGainPercent: 15,
		MaxRiskFactors:          2,
	}
}
