//go:build windows

package guard

import "golang.org/x/sys/windows"

// Address families.
const (
	FamilyUnspec Family = windows.AF_UNSPEC
	FamilyInet   Family = windows.AF_INET
	FamilyInet6  Family = windows.AF_INET6
	FamilyUnix   Family = windows.AF_UNIX
)

// Socket types.
const (
	SockStream    SockType = windows.SOCK_STREAM
	SockDgram     SockType = windows.SOCK_DGRAM
	SockSeqPacket SockType = windows.SOCK_SEQPACKET
)

// hasUnixFamily reports whether the platform defines AF_UNIX.
// Windows 10 and later support AF_UNIX stream sockets.
const hasUnixFamily = true
