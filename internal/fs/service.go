package fs

import "context"

// UndoToken is the receipt of a delete: Paths were moved to BackupPaths.
type UndoToken struct {
	ID          string   `json:"id"`
	Operation   string   `json:"operation"`
	Paths       []string `json:"paths"`
	BackupPaths []string `json:"backup_paths"`
}

// Service is everything the client core asks of the filesystem.
type Service interface {
	ListDirectory(ctx context.Context, path string) ([]Entry, error)
	// Copy copies sources into dest and returns the paths it created.
	Copy(ctx context.Context, sources []string, dest string) ([]string, error)
	Move(ctx context.Context, sources []string, dest string) error
	Delete(ctx context.Context, paths []string) (UndoToken, error)
	// Restore reverses a Delete.
	Restore(ctx context.Context, token UndoToken) error
	CreateDirectory(ctx context.Context, parent, name string) (string, error)
	Rename(ctx context.Context, path, newName string) (string, error)
	ParentDirectory(ctx context.Context, path string) (string, bool)
	HomeDirectory(ctx context.Context) (string, bool)
	FileInfo(ctx context.Context, path string) (Entry, error)
}
