package sync

// ProductSyncResult reports the counters of one product pull
type ProductSyncResult struct {
	TotalSynced      int `json:"total_synced"`
	SkippedNoBarcode int `json:"skipped_no_barcode"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	SkippedInvalid   int `json:"skipped_invalid"`
}

// CustomerSyncResult reports the counters of one customer pull
type CustomerSyncResult struct {
	TotalSynced      int `json:"total_synced"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	SkippedInvalid   int `json:"skipped_invalid"`
}
