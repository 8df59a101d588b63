package dashboard

// Dataset names one of the independently fetched state slots
type Dataset string

const (
	DatasetKPISeries       Dataset = "kpi"
	DatasetKPITargets      Dataset = "kpi_targets"
	DatasetRisks           Dataset = "risks"
	DatasetPredefinedRisks Dataset = "predefined_risks"
)

// Datasets returns every slot in mount order
func Datasets() []Dataset {
	return []Dataset{DatasetKPISeries, DatasetKPITargets, DatasetRisks, DatasetPredefinedRisks}
}

// SlotState is the load state of a dataset. Failed is distinct from pending.
type SlotState string

const (
	SlotPending SlotState = "pending"
	SlotLoaded  SlotState = "loaded"
	SlotFailed  SlotState = "failed"
)

// Slot tracks one dataset's load state and its last error
type Slot struct {
	State SlotState
	Err   error
}
