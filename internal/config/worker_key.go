package config

type WorkerKeyStruct struct {
	DownloadCountsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	DownloadCountsQueue: "download_counts_queue",
}
