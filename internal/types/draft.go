package types

// Draft is an offline-only partial snapshot of a document awaiting a
// later remote commit. It is created when a remote write is skipped or
// fails while offline, read back on the next load of that document,
// and cleared after a successful reconciliation. Drafts are owned
// exclusively by the persistence layer.
type Draft struct {
	DocumentID   string        `json:"documentId"`
	Patch        DocumentPatch `json:"patch"`
	LastModified string        `json:"lastModified"`
}
