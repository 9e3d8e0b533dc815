// Package collections names the logical collections and their key-value slots.
package collections

// Logical collection names. These double as the top-level keys of backup
// documents and remote sync records.
const (
	SalesData       = "salesData"
	Tasks           = "tasks"
	TaskCompletions = "taskCompletions"
	WorkLogs        = "workLogs"
	Products        = "products"
	PricingItems    = "pricingItems"
	Competitors     = "competitors"
	VideoLogs       = "videoLogs"
	Goals           = "goals"
)

// SyncMeta is the marker slot remote sync keeps its reconciliation stamp in.
// It is not a collection and never appears in backup documents.
const SyncMeta = "syncMeta"

// Slot suffixes on the key-value tier, keyed by collection name.
var slotSuffixes = map[string]string{
	SalesData:       "_sales_data",
	Tasks:           "_tasks_def",
	TaskCompletions: "_task_completions",
	WorkLogs:        "_work_logs",
	Products:        "_hero_products",
	PricingItems:    "_pricing_data",
	Competitors:     "_competitors",
	VideoLogs:       "_video_logs",
	Goals:           "_goals",
}

// All lists every collection in a stable order. Goals keeps insertion order
// semantics, so ordering here is presentation only.
var All = []string{
	SalesData,
	Tasks,
	TaskCompletions,
	WorkLogs,
	Products,
	PricingItems,
	Competitors,
	VideoLogs,
	Goals,
}

// Slot returns the key-value slot name for a collection under the given app
// prefix, e.g. Slot("shopdash", SalesData) == "shopdash_sales_data".
func Slot(prefix, collection string) string {
	suffix, ok := slotSuffixes[collection]
	if !ok {
		return prefix + "_" + collection
	}
	return prefix + suffix
}
