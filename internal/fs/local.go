package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/charlievieth/fastwalk"
	"github.com/google/uuid"
	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/trash"
)

const (
	dirPermission = 0o755
)

// errNotSameDevice is ERROR_NOT_SAME_DEVICE, what Windows reports instead of EXDEV.
const errNotSameDevice = syscall.Errno(17)

// Replaced in tests to simulate rename and removal failures.
var (
	rename    = os.Rename
	removeAll = os.RemoveAll
)

func isCrossDevice(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	return runtime.GOOS == "windows" && errors.Is(err, errNotSameDevice)
}

// Progress reports bytes copied during Copy and cross-device Move.
type Progress struct {
	Label   string
	Current int64
	Total   int64
}

// Local serves Service from the local disk.
type Local struct {
	// OnProgress, when set, receives copy progress. It is called from the
	// goroutine running the operation.
	OnProgress func(Progress)
}

var _ Service = (*Local)(nil)

// NewLocal returns a Local without progress reporting.
func NewLocal() *Local { return &Local{} }

func (l *Local) ListDirectory(ctx context.Context, path string) ([]Entry, error) {
	path = NormalizeWSLPath(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, classify(err, path)
	}
	if !info.IsDir() {
		return nil, NewError(KindNotADirectory, path)
	}

	var (
		mu     sync.Mutex
		result []Entry
	)
	root := filepath.Clean(path)
	err = fastwalk.Walk(&fastwalk.Config{Follow: false}, root, func(full string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			debug.Log(debug.FS_ENTRY, "list: walk error at %q: %v", full, err)
			return nil
		}
		if full == root {
			return nil
		}
		if filepath.Dir(full) != root {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(full, d)
		if err != nil {
			// broken symlink
			if info, err = os.Lstat(full); err != nil {
				debug.Log(debug.FS_ENTRY, "list: skipping %q: %v", d.Name(), err)
				return nil
			}
		}
		e := EntryFromInfo(full, info, d.Type()&iofs.ModeSymlink != 0)
		mu.Lock()
		result = append(result, e)
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, path)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDir != result[j].IsDir {
			return result[i].IsDir
		}
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	debug.Log(debug.FS, "list %q: %d entries", path, len(result))
	return result, nil
}

// Copy never overwrites: a name already taken in dest becomes name_copyN.ext.
func (l *Local) Copy(ctx context.Context, sources []string, dest string) ([]string, error) {
	dest = NormalizeWSLPath(dest)
	var created []string
	for _, src := range sources {
		src = NormalizeWSLPath(src)
		info, err := os.Stat(src)
		if err != nil {
			return created, classify(err, src)
		}
		if info.IsDir() && isWithin(dest, src) {
			return created, NewError(KindInvalidOperation, "Cannot copy a directory into itself")
		}
		dst := freeName(dest, filepath.Base(src))
		if info.IsDir() {
			err = l.copyDir(ctx, src, dst)
		} else {
			err = l.copyFile(ctx, src, dst, info.Size())
		}
		if err != nil {
			return created, classify(err, src)
		}
		created = append(created, dst)
	}
	return created, nil
}

// Move skips sources already in dest and refuses to replace an existing target.
func (l *Local) Move(ctx context.Context, sources []string, dest string) error {
	dest = NormalizeWSLPath(dest)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return classify(err, src)
		}
		src = NormalizeWSLPath(src)
		if filepath.Dir(filepath.Clean(src)) == filepath.Clean(dest) {
			continue
		}
		info, err := os.Stat(src)
		if err != nil {
			return classify(err, src)
		}
		if info.IsDir() && isWithin(dest, src) {
			return NewError(KindInvalidOperation, "Cannot move a directory into itself")
		}
		dst := filepath.Join(dest, filepath.Base(src))
		if _, err := os.Lstat(dst); err == nil {
			return NewError(KindInvalidOperation, "Destination already exists: "+dst)
		}
		if err := rename(src, dst); err != nil {
			if !isCrossDevice(err) {
				return classify(err, src)
			}
			if err := l.moveAcross(ctx, src, dst, info); err != nil {
				return classify(err, src)
			}
		}
	}
	return nil
}

// moveAcross copies src to dst and then removes src. When a file source
// cannot be removed the copy is deleted again, so a failed move never leaves
// two files behind. A directory copy is kept because the failed removal may
// already have deleted part of the source.
func (l *Local) moveAcross(ctx context.Context, src, dst string, info os.FileInfo) error {
	var err error
	if info.IsDir() {
		err = l.copyDir(ctx, src, dst)
	} else {
		err = l.copyFile(ctx, src, dst, info.Size())
	}
	if err != nil {
		return err
	}
	if err := removeAll(src); err != nil {
		if info.IsDir() {
			return NewError(KindIo, "copied to "+dst+" but could not remove the source: "+err.Error())
		}
		if rerr := os.Remove(dst); rerr != nil {
			debug.Log(debug.FS, "move: cleanup of %q failed: %v", dst, rerr)
		}
		return err
	}
	return nil
}

func (l *Local) Delete(ctx context.Context, paths []string) (UndoToken, error) {
	token := UndoToken{ID: uuid.NewString(), Operation: "delete"}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return token, classify(err, p)
		}
		p = NormalizeWSLPath(p)
		if _, err := os.Lstat(p); err != nil {
			return token, classify(err, p)
		}
		backup, err := trash.MoveToTrash(p)
		if err != nil {
			return token, NewError(KindIo, err.Error())
		}
		token.Paths = append(token.Paths, p)
		token.BackupPaths = append(token.BackupPaths, backup)
	}
	debug.Log(debug.FS, "delete: %d paths trashed (token %s)", len(token.Paths), token.ID)
	return token, nil
}

func (l *Local) Restore(ctx context.Context, token UndoToken) error {
	if len(token.Paths) != len(token.BackupPaths) {
		return NewError(KindInvalidOperation, "Malformed undo token")
	}
	for i, backup := range token.BackupPaths {
		if err := ctx.Err(); err != nil {
			return classify(err, backup)
		}
		if err := trash.Restore(backup, token.Paths[i]); err != nil {
			if errors.Is(err, trash.ErrOccupied) {
				return NewError(KindInvalidOperation, "Destination already exists: "+token.Paths[i])
			}
			return classify(err, backup)
		}
	}
	return nil
}

func (l *Local) CreateDirectory(ctx context.Context, parent, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(NormalizeWSLPath(parent), name)
	if _, err := os.Lstat(path); err == nil {
		return "", NewError(KindInvalidOperation, "Already exists: "+path)
	}
	if err := os.Mkdir(path, dirPermission); err != nil {
		return "", classify(err, path)
	}
	return path, nil
}

func (l *Local) Rename(ctx context.Context, path, newName string) (string, error) {
	if err := validateName(newName); err != nil {
		return "", err
	}
	path = NormalizeWSLPath(path)
	parent := filepath.Dir(path)
	if parent == path {
		return "", NewError(KindInvalidOperation, "Cannot rename root")
	}
	if _, err := os.Lstat(path); err != nil {
		return "", classify(err, path)
	}
	target := filepath.Join(parent, newName)
	if target == path {
		return path, nil
	}
	if _, err := os.Lstat(target); err == nil {
		return "", NewError(KindInvalidOperation, "Already exists: "+target)
	}
	if err := os.Rename(path, target); err != nil {
		return "", classify(err, path)
	}
	return target, nil
}

func (l *Local) ParentDirectory(ctx context.Context, path string) (string, bool) {
	path = filepath.Clean(NormalizeWSLPath(path))
	parent := filepath.Dir(path)
	if parent == path {
		return "", false
	}
	return parent, true
}

func (l *Local) HomeDirectory(ctx context.Context) (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return home, true
}

func (l *Local) FileInfo(ctx context.Context, path string) (Entry, error) {
	path = NormalizeWSLPath(path)
	linfo, err := os.Lstat(path)
	if err != nil {
		return Entry{}, classify(err, path)
	}
	symlink := linfo.Mode()&os.ModeSymlink != 0
	info := linfo
	if symlink {
		if target, err := os.Stat(path); err == nil {
			info = target
		}
	}
	return EntryFromInfo(path, info, symlink), nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return NewError(KindInvalidOperation, "Name cannot be empty")
	case name == "." || name == "..":
		return NewError(KindInvalidOperation, "Invalid name: "+name)
	case strings.ContainsAny(name, `/\`):
		return NewError(KindInvalidOperation, "Name cannot contain path separators")
	}
	return nil
}

// isWithin reports whether path is dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// freeName returns dir/base, or dir/stem_copyN.ext for the first unused N.
func freeName(dir, base string) string {
	dst := filepath.Join(dir, base)
	if _, err := os.Lstat(dst); os.IsNotExist(err) {
		return dst
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		dst = filepath.Join(dir, stem+"_copy"+strconv.Itoa(i)+ext)
		if _, err := os.Lstat(dst); os.IsNotExist(err) {
			return dst
		}
	}
}

func (l *Local) report(label string, current, total int64) {
	if l.OnProgress != nil {
		l.OnProgress(Progress{Label: label, Current: current, Total: total})
	}
}

func (l *Local) copyFile(ctx context.Context, src, dst string, total int64) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	label := "Copying " + filepath.Base(src)
	var done int64
	w := &progressWriter{w: out, onWrite: func(n int64) {
		done += n
		l.report(label, done, total)
	}}
	_, err = io.Copy(w, &ctxReader{ctx: ctx, r: in})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
	}
	return err
}

// copyDir copies the tree at src to dst, which must not exist yet. Any
// unreadable part of the tree fails the copy and removes what was written.
func (l *Local) copyDir(ctx context.Context, src, dst string) (err error) {
	type copyItem struct {
		src, dst string
		isDir    bool
		mode     iofs.FileMode
		size     int64
	}
	var (
		mu    sync.Mutex
		items []copyItem
		total int64
	)
	err = fastwalk.Walk(&fastwalk.Config{Follow: false}, src, func(full string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		if full == src {
			return nil
		}
		rel, err := filepath.Rel(src, full)
		if err != nil {
			return err
		}
		info, err := os.Lstat(full)
		if err != nil {
			return err
		}
		item := copyItem{src: full, dst: filepath.Join(dst, rel), isDir: info.IsDir(), mode: info.Mode(), size: info.Size()}
		mu.Lock()
		items = append(items, item)
		if !item.isDir {
			total += item.size
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	// parents before children, directories before files
	sort.Slice(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return items[i].isDir
		}
		return len(items[i].dst) < len(items[j].dst)
	})

	if err := os.MkdirAll(dst, dirPermission); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dst)
		}
	}()
	label := "Copying " + filepath.Base(src)
	var done int64
	for _, it := range items {
		switch {
		case it.isDir:
			if err := os.MkdirAll(it.dst, it.mode.Perm()|0o700); err != nil {
				return err
			}
		case it.mode&os.ModeSymlink != 0:
			target, err := os.Readlink(it.src)
			if err != nil {
				return err
			}
			if err := os.Symlink(target, it.dst); err != nil {
				return err
			}
		case it.mode.IsRegular():
			if err := l.copyFile(ctx, it.src, it.dst, it.size); err != nil {
				return err
			}
			done += it.size
			l.report(label, done, total)
		}
	}
	return nil
}

// progressWriter wraps an io.Writer and calls onWrite after each write
type progressWriter struct {
	w       io.Writer
	onWrite func(int64)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	if n > 0 && pw.onWrite != nil {
		pw.onWrite(int64(n))
	}
	return n, err
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
