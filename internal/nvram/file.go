package nvram

import "os"

// File is an os.File-backed Store: persistence that survives process
// restarts, the way SAV/LD are meant to round-trip a dictionary image
// across power cycles on real nonvolatile hardware.
type File struct {
	f    *os.File
	size int
}

// OpenFile opens (creating if necessary) a file-backed Store of the given
// byte capacity at path, truncating or extending the file to exactly that
// size.
func OpenFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, size: size}, nil
}

// Length reports the store's total capacity in bytes.
func (f *File) Length() int { return f.size }

// Read returns the byte at offset i, or 0 on any I/O error. A byte that was
// never written reads as 0, since OpenFile sized the file to capacity.
func (f *File) Read(i int) byte {
	var b [1]byte
	if _, err := f.f.ReadAt(b[:], int64(i)); err != nil {
		return 0
	}
	return b[0]
}

// Update writes byte b at offset i.
func (f *File) Update(i int, b byte) {
	buf := [1]byte{b}
	_, _ = f.f.WriteAt(buf[:], int64(i))
}

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }
