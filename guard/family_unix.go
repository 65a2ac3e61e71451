//go:build unix

package guard

import "golang.org/x/sys/unix"

// Address families.
const (
	FamilyUnspec Family = unix.AF_UNSPEC
	FamilyInet   Family = unix.AF_INET
	FamilyInet6  Family = unix.AF_INET6
	FamilyUnix   Family = unix.AF_UNIX
)

// Socket types.
const (
	SockStream    SockType = unix.SOCK_STREAM
	SockDgram     SockType = unix.SOCK_DGRAM
	SockSeqPacket SockType = unix.SOCK_SEQPACKET
)

// hasUnixFamily reports whether the platform defines AF_UNIX.
const hasUnixFamily = true
