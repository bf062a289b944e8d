package artifact

// Manager finds and removes the intermediate files one session leaves in the
// output directory.
type Manager interface {
	// Track registers a transient file produced by the session itself.
	Track(path string)
	// Find returns the byproducts of the engine run for stem and the tracked
	// files, excluding Markdown notes, archived media and keep.
	Find(stem, timestamp string, keep ...string) ([]string, error)
	// Reconcile deletes files. A JSON file is preserved when the final note
	// was not created and the session did not end in no-speech.
	Reconcile(files []string, finalCreated, noSpeech bool) Report
}

// Report lists what Reconcile did with each file.
type Report struct {
	Deleted   []string
	Preserved []string
	Failed    map[string]error
}
