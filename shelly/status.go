package shelly

// deviceStatus covers the fields of interest across the Shelly device
// families. Three-phase energy meters report per-phase channels under
// `emeters`, plug-style meters report the same channel shape under `meters`,
// and newer switch devices report a single `apower` per switch entry.
type deviceStatus struct {
	EMeters  []meterChannel `json:"emeters"`
	Meters   []meterChannel `json:"meters"`
	Switches []switchStatus `json:"switches"`

	Temperature *temperatureStatus `json:"temperature"`
	Tmp         *temperatureStatus `json:"tmp"`
}

type meterChannel struct {
	Power float64 `json:"power"`
}

type switchStatus struct {
	APower float64 `json:"apower"`
}

type temperatureStatus struct {
	TC *float64 `json:"tC"`
}
