package coordinator

import (
	"fmt"
	"strings"
)

// Provider registry keys
const (
	ProviderFRED      = "fred"
	ProviderWorldBank = "worldbank"
)

// Countries is the static fetch plan for every supported country.
//
// US series come from the US statistical API; its inflation series is a
// raw consumer price index, so it carries KindIndex and publishes as the
// derived year-over-year change. Every other country comes from the
// multi-country API, whose inflation series is already an annual
// percentage change.
var Countries = []CountryConfig{
	{
		Code:     "US",
		Name:     "United States",
		Currency: "USD",
		Provider: ProviderFRED,
		Series: map[Indicator]SeriesSpec{
			IndicatorInterestRate: {ID: "FEDFUNDS", Kind: KindRate},
			IndicatorInflation:    {ID: "CPIAUCSL", Kind: KindIndex},
			IndicatorUnemployment: {ID: "UNRATE", Kind: KindRate},
		},
	},
	{
		Code:     "CN",
		Name:     "China",
		Currency: "CNY",
		Provider: ProviderWorldBank,
		Series: map[Indicator]SeriesSpec{
			IndicatorInterestRate: {ID: "FR.INR.RINR", Kind: KindRate},
			IndicatorInflation:    {ID: "FP.CPI.TOTL.ZG", Kind: KindRate},
			IndicatorUnemployment: {ID: "SL.UEM.TOTL.ZS", Kind: KindRate},
		},
	},
	{
		Code:     "JP",
		Name:     "Japan",
		Currency: "JPY",
		Provider: ProviderWorldBank,
		Series: map[Indicator]SeriesSpec{
			IndicatorInterestRate: {ID: "FR.INR.RINR", Kind: KindRate},
			IndicatorInflation:    {ID: "FP.CPI.TOTL.ZG", Kind: KindRate},
			IndicatorUnemployment: {ID: "SL.UEM.TOTL.ZS", Kind: KindRate},
		},
	},
	{
		Code:     "DE",
		Name:     "Germany",
		Currency: "EUR",
		Provider: ProviderWorldBank,
		Series: map[Indicator]SeriesSpec{
			IndicatorInterestRate: {ID: "FR.INR.RINR", Kind: KindRate},
			IndicatorInflation:    {ID: "FP.CPI.TOTL.ZG", Kind: KindRate},
			IndicatorUnemployment: {ID: "SL.UEM.TOTL.ZS", Kind: KindRate},
		},
	},
	{
		Code:     "GB",
		Name:     "United Kingdom",
		Currency: "GBP",
		Provider: ProviderWorldBank,
		Series: map[Indicator]SeriesSpec{
			IndicatorInterestRate: {ID: "FR.INR.RINR", Kind: KindRate},
			IndicatorInflation:    {ID: "FP.CPI.TOTL.ZG", Kind: KindRate},
			IndicatorUnemployment: {ID: "SL.UEM.TOTL.ZS", Kind: KindRate},
		},
	},
	{
		Code:     "IN",
		Name:     "India",
		Currency: "INR",
		Provider: ProviderWorldBank,
		Series: map[Indicator]SeriesSpec{
			IndicatorInterestRate: {ID: "FR.INR.RINR", Kind: KindRate},
			IndicatorInflation:    {ID: "FP.CPI.TOTL.ZG", Kind: KindRate},
			IndicatorUnemployment: {ID: "SL.UEM.TOTL.ZS", Kind: KindRate},
		},
	},
}

// FindCountries resolves requested country codes against the registry,
// preserving registry order. An empty request selects every supported
// country; an unknown code is a configuration error.
func FindCountries(codes []string) ([]CountryConfig, error) {
	if len(codes) == 0 {
		return Countries, nil
	}

	requested := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		requested[code] = true
	}

	var selected []CountryConfig
	for _, cfg := range Countries {
		if requested[cfg.Code] {
			selected = append(selected, cfg)
			delete(requested, cfg.Code)
		}
	}

	if len(requested) > 0 {
		unknown := make([]string, 0, len(requested))
		for code := range requested {
			unknown = append(unknown, code)
		}
		return nil, fmt.Errorf("unknown country code(s): %s", strings.Join(unknown, ", "))
	}

	return selected, nil
}
