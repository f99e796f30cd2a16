package pipeline

// ProcessedKey is the S3 user-metadata key marking an object as already
// watermarked. It is attached atomically with the re-upload write and is
// never cleared by the pipeline.
//
// The marker exists because the handler's own re-upload generates a fresh
// object-created event for the same key. Without it the pipeline would
// re-trigger itself forever.
const ProcessedKey = "exclude-lambda"

// ProcessedValue is the marker value written alongside ProcessedKey.
const ProcessedValue = "true"

// AlreadyProcessed reports whether the object metadata carries the
// processed marker. When true, the handler must perform no payload read
// and no write for the object.
func AlreadyProcessed(metadata map[string]string) bool {
	return metadata[ProcessedKey] == ProcessedValue
}

// MarkProcessed returns a copy of metadata with the processed marker set.
// The input map is not modified.
func MarkProcessed(metadata map[string]string) map[string]string {
	marked := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		marked[k] = v
	}
	marked[ProcessedKey] = ProcessedValue
	return marked
}
