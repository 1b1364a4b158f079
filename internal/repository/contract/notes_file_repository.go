package contract

// NotesFileRepository keeps the most recent notes on local disk.
type NotesFileRepository interface {
	Save(content string) (string, error)
	LoadLatest() (string, error)
}
