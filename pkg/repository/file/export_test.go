package file

import (
	"context"
	"os"
)

// SetWriteFileForTest replaces the atomic writer used for every data file
func (f *File) SetWriteFileForTest(fn func(ctx context.Context, path string, data []byte, perm os.FileMode) error) {
	f.writeFile = fn
}
