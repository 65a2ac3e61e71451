// Package guard owns the process-wide swap point for socket construction and
// connection.
//
// Every socket made through this package goes through two primitives: a
// constructor (NewSocket) and a connect operation (Socket.Connect). Both are
// held in a single process-wide slot. By default the slot holds the original
// primitives, which create and connect sockets with the standard library. The
// Install functions replace one or both primitives with guarded variants that
// fail with *SocketBlockedError or *ConnectBlockedError, and RestoreOriginal
// puts the originals back.
//
// All helpers (Dial, DialContext, Listen, Dialer, Transport, SOCKS5) construct
// their sockets through NewSocket, so a policy installed here applies to them
// and to anything built on them, such as an *http.Client using Transport.
//
// Most users should use the top-level sockguard package, which installs and
// restores policies around each test automatically.
package guard
