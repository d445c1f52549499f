package storage

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Pager is the random-access page reader (spec.md §4.7). It owns the
// open file handle exclusively; pages are decoded fresh on every read
// and never retained here (spec.md §3 "Lifecycles": the OS page cache
// is the only cache). Generalizes the teacher's DatabaseRawImpl.ReadPage
// (app/database_raw.go): the teacher fanned cell decoding out across a
// goroutine per cell, gated by a concurrency semaphore; spec.md §5
// requires the core to be single-threaded and synchronous with no
// suspension points, so that fan-out is dropped here (see DESIGN.md) in
// favor of plain sequential reads.
type Pager struct {
	file     *os.File
	pageSize int
	log      *logrus.Entry
}

// NewPager wraps an already-open file in a Pager once the database
// header's page size is known to the caller (Open in database.go opens
// the file and reads the header before constructing this).
func NewPager(file *os.File, pageSize int, log *logrus.Entry) *Pager {
	return &Pager{file: file, pageSize: pageSize, log: log}
}

// ReadPage loads the 1-based page n into a freshly allocated buffer.
func (p *Pager) ReadPage(n int) ([]byte, error) {
	if n < 1 {
		return nil, newErr(KindIO, "read page", n, 0, "page_number", nil)
	}

	offset := int64(n-1) * int64(p.pageSize)
	buf := make([]byte, p.pageSize)

	read, err := p.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, newErr(KindIO, "read page", n, 0, "", err)
	}
	if read != p.pageSize {
		return nil, newErr(KindShortRead, "read page", n, 0, "", nil)
	}

	if p.log != nil {
		p.log.WithField("page", n).Debug("read page")
	}

	return buf, nil
}

// Close releases the underlying file handle.
func (p *Pager) Close() error {
	return p.file.Close()
}
