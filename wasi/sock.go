package wasi

import (
	"io"
	"net"
	"os"
)

// A Socket is a File that additionally supports the socket operations. The
// shutdown flags map onto sock_shutdown's read/write channels.
type Socket interface {
	File

	Recv(buffers [][]byte, peek, waitAll bool) (uint32, bool, error)
	Send(buffers [][]byte) (uint32, error)
	Shutdown(read, write bool) error
}

// connSocket adapts a stream-oriented net.Conn to the Socket interface.
// Embeddings hand sockets to guests by listing them in Options.Sockets;
// they are installed in the descriptor table after the preopens.
type connSocket struct {
	ErrFile
	c net.Conn
}

// NewSocket wraps an established stream connection as a guest socket
// resource.
func NewSocket(c net.Conn) Socket {
	return &connSocket{c: c}
}

func (s *connSocket) Close() error {
	return s.c.Close()
}

func (s *connSocket) Readv(buffers [][]byte) (uint32, error) {
	return Readv(s.c, buffers)
}

func (s *connSocket) Writev(buffers [][]byte) (uint32, error) {
	return Writev(s.c, buffers)
}

func (s *connSocket) Stat() (FDStat, error) {
	return FDStat{FileStat: FileStat{Mode: os.ModeSocket}}, nil
}

func (s *connSocket) Recv(buffers [][]byte, peek, waitAll bool) (uint32, bool, error) {
	// Peeking requires an OS-level receive queue; net.Conn does not expose
	// one.
	if peek {
		return 0, false, errNotSup
	}

	read := uint32(0)
	for _, b := range buffers {
		var n int
		var err error
		if waitAll {
			n, err = io.ReadFull(s.c, b)
		} else {
			n, err = s.c.Read(b)
		}
		read += uint32(n)

		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return read, false, nil
			}
			return read, false, err
		}
		if !waitAll && n < len(b) {
			break
		}
	}
	return read, false, nil
}

func (s *connSocket) Send(buffers [][]byte) (uint32, error) {
	return Writev(s.c, buffers)
}

func (s *connSocket) Shutdown(read, write bool) error {
	type closeReader interface {
		CloseRead() error
	}
	type closeWriter interface {
		CloseWrite() error
	}

	if read {
		cr, ok := s.c.(closeReader)
		if !ok {
			return errNotSup
		}
		if err := cr.CloseRead(); err != nil {
			return err
		}
	}
	if write {
		cw, ok := s.c.(closeWriter)
		if !ok {
			return errNotSup
		}
		if err := cw.CloseWrite(); err != nil {
			return err
		}
	}
	return nil
}
