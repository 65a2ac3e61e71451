//go:build !unix && !windows

package guard

// Address families. Platforms in this file have no AF_UNIX; FamilyUnix is a
// placeholder that IsUnixFamily never matches.
const (
	FamilyUnspec Family = 0
	FamilyInet   Family = 2
	FamilyInet6  Family = 10
	FamilyUnix   Family = -1
)

// Socket types.
const (
	SockStream    SockType = 1
	SockDgram     SockType = 2
	SockSeqPacket SockType = 5
)

// hasUnixFamily reports whether the platform defines AF_UNIX.
const hasUnixFamily = false
