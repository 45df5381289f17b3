// Package metrics provides run counter collection and reporting for harvests.
package metrics

// RunCounters holds the counters accumulated over one harvest run.
// It is a plain value owned by the run loop and carried on its result,
// never shared package state, so repeated runs start from zero.
type RunCounters struct {
	// PagesVisited is the number of catalog pages fetched successfully.
	PagesVisited int
	// RecordsObserved is the number of listing rows that yielded a
	// record, relevant or not.
	RecordsObserved int
	// RelevantRecords is the number of records accepted for storage.
	// With filtering disabled this equals RecordsObserved.
	RelevantRecords int
	// ArtifactsDownloaded is the number of artifact files newly written.
	ArtifactsDownloaded int
	// DownloadsSkipped is the number of artifacts skipped because a file
	// of the same name was already on disk.
	DownloadsSkipped int
	// DownloadFailures is the number of artifact fetches that failed.
	DownloadFailures int
	// RowErrors is the number of listing rows that could not be turned
	// into a record.
	RowErrors int
}
