package wasi

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"syscall"
)

// Typed variants of the host errors the fs layer raises itself, so they
// survive errors.Is across platforms.
var (
	errNotDir = syscall.ENOTDIR
	errIsDir  = syscall.EISDIR
	errNotSup = syscall.ENOSYS
)

// fileErrno maps a host-side error onto the errno namespace. `*os.PathError`
// and friends are unwrapped via errors.As, so callers can pass errors
// straight from the os package. Unknown errors collapse to errno::io rather
// than leaking host details to the guest.
func fileErrno(err error) wasiErrno {
	var sysErrno syscall.Errno
	if errors.As(err, &sysErrno) {
		return syscallErrno(sysErrno)
	}

	switch {
	case err == nil:
		return wasiErrnoSuccess
	case errors.Is(err, io.EOF):
		return wasiErrnoSuccess
	case errors.Is(err, io.ErrClosedPipe):
		return wasiErrnoPipe
	case errors.Is(err, io.ErrShortWrite):
		return wasiErrnoIo
	case errors.Is(err, fs.ErrInvalid):
		return wasiErrnoInval
	case errors.Is(err, os.ErrPermission):
		return wasiErrnoPerm
	case errors.Is(err, os.ErrExist):
		return wasiErrnoExist
	case errors.Is(err, os.ErrNotExist):
		return wasiErrnoNoent
	case errors.Is(err, os.ErrClosed):
		return wasiErrnoBadf
	case errors.Is(err, ErrNotCapable):
		return wasiErrnoNotcapable
	case errors.Is(err, ErrPathEscapes):
		return wasiErrnoNotcapable
	case errors.Is(err, ErrMemoryFault):
		return wasiErrnoFault
	default:
		return wasiErrnoIo
	}
}

func syscallErrno(errno syscall.Errno) wasiErrno {
	switch errno {
	case 0:
		return wasiErrnoSuccess
	case syscall.E2BIG:
		return wasiErrno2big
	case syscall.EACCES:
		return wasiErrnoAcces
	case syscall.EADDRINUSE:
		return wasiErrnoAddrinuse
	case syscall.EADDRNOTAVAIL:
		return wasiErrnoAddrnotavail
	case syscall.EAFNOSUPPORT:
		return wasiErrnoAfnosupport
	case syscall.EAGAIN:
		return wasiErrnoAgain
	case syscall.EALREADY:
		return wasiErrnoAlready
	case syscall.EBADF:
		return wasiErrnoBadf
	case syscall.EBADMSG:
		return wasiErrnoBadmsg
	case syscall.EBUSY:
		return wasiErrnoBusy
	case syscall.ECANCELED:
		return wasiErrnoCanceled
	case syscall.ECHILD:
		return wasiErrnoChild
	case syscall.ECONNABORTED:
		return wasiErrnoConnaborted
	case syscall.ECONNREFUSED:
		return wasiErrnoConnrefused
	case syscall.ECONNRESET:
		return wasiErrnoConnreset
	case syscall.EDEADLK:
		return wasiErrnoDeadlk
	case syscall.EDESTADDRREQ:
		return wasiErrnoDestaddrreq
	case syscall.EDOM:
		return wasiErrnoDom
	case syscall.EDQUOT:
		return wasiErrnoDquot
	case syscall.EEXIST:
		return wasiErrnoExist
	case syscall.EFAULT:
		return wasiErrnoFault
	case syscall.EFBIG:
		return wasiErrnoFbig
	case syscall.EHOSTUNREACH:
		return wasiErrnoHostunreach
	case syscall.EIDRM:
		return wasiErrnoIdrm
	case syscall.EILSEQ:
		return wasiErrnoIlseq
	case syscall.EINPROGRESS:
		return wasiErrnoInprogress
	case syscall.EINTR:
		return wasiErrnoIntr
	case syscall.EINVAL:
		return wasiErrnoInval
	case syscall.EIO:
		return wasiErrnoIo
	case syscall.EISCONN:
		return wasiErrnoIsconn
	case syscall.EISDIR:
		return wasiErrnoIsdir
	case syscall.ELOOP:
		return wasiErrnoLoop
	case syscall.EMFILE:
		return wasiErrnoMfile
	case syscall.EMLINK:
		return wasiErrnoMlink
	case syscall.EMSGSIZE:
		return wasiErrnoMsgsize
	case syscall.EMULTIHOP:
		return wasiErrnoMultihop
	case syscall.ENAMETOOLONG:
		return wasiErrnoNametoolong
	case syscall.ENETDOWN:
		return wasiErrnoNetdown
	case syscall.ENETRESET:
		return wasiErrnoNetreset
	case syscall.ENETUNREACH:
		return wasiErrnoNetunreach
	case syscall.ENFILE:
		return wasiErrnoNfile
	case syscall.ENOBUFS:
		return wasiErrnoNobufs
	case syscall.ENODEV:
		return wasiErrnoNodev
	case syscall.ENOENT:
		return wasiErrnoNoent
	case syscall.ENOEXEC:
		return wasiErrnoNoexec
	case syscall.ENOLCK:
		return wasiErrnoNolck
	case syscall.ENOLINK:
		return wasiErrnoNolink
	case syscall.ENOMEM:
		return wasiErrnoNomem
	case syscall.ENOMSG:
		return wasiErrnoNomsg
	case syscall.ENOPROTOOPT:
		return wasiErrnoNoprotoopt
	case syscall.ENOSPC:
		return wasiErrnoNospc
	case syscall.ENOSYS:
		return wasiErrnoNosys
	case syscall.ENOTCONN:
		return wasiErrnoNotconn
	case syscall.ENOTDIR:
		return wasiErrnoNotdir
	case syscall.ENOTEMPTY:
		return wasiErrnoNotempty
	case syscall.ENOTRECOVERABLE:
		return wasiErrnoNotrecoverable
	case syscall.ENOTSOCK:
		return wasiErrnoNotsock
	case syscall.ENOTSUP:
		return wasiErrnoNotsup
	case syscall.ENOTTY:
		return wasiErrnoNotty
	case syscall.ENXIO:
		return wasiErrnoNxio
	case syscall.EOVERFLOW:
		return wasiErrnoOverflow
	case syscall.EOWNERDEAD:
		return wasiErrnoOwnerdead
	case syscall.EPERM:
		return wasiErrnoPerm
	case syscall.EPIPE:
		return wasiErrnoPipe
	case syscall.EPROTO:
		return wasiErrnoProto
	case syscall.EPROTONOSUPPORT:
		return wasiErrnoProtonosupport
	case syscall.EPROTOTYPE:
		return wasiErrnoPrototype
	case syscall.ERANGE:
		return wasiErrnoRange
	case syscall.EROFS:
		return wasiErrnoRofs
	case syscall.ESPIPE:
		return wasiErrnoSpipe
	case syscall.ESRCH:
		return wasiErrnoSrch
	case syscall.ESTALE:
		return wasiErrnoStale
	case syscall.ETIMEDOUT:
		return wasiErrnoTimedout
	case syscall.ETXTBSY:
		return wasiErrnoTxtbsy
	case syscall.EXDEV:
		return wasiErrnoXdev
	default:
		return wasiErrnoIo
	}
}
