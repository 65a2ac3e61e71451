package guard

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// DialContext constructs a socket for network and connects it to address,
// both through the live primitives. network is one of "tcp", "tcp4", "tcp6",
// "udp", "udp4", "udp6", "unix", "unixgram" or "unixpacket".
func DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	family, sotype, err := familyFor(network, address)
	if err != nil {
		return nil, &net.OpError{Op: "dial", Net: network, Err: err}
	}
	s, err := NewSocket(family, sotype)
	if err != nil {
		return nil, err
	}
	s.network = network
	if err := s.Connect(ctx, address); err != nil {
		return nil, err
	}
	return s.Conn(), nil
}

// Dial is DialContext with a background context.
func Dial(network, address string) (net.Conn, error) {
	return DialContext(context.Background(), network, address)
}

// Listen checks socket construction for network through the live constructor
// and then announces on address. Listeners are not subject to connect
// filtering.
func Listen(network, address string) (net.Listener, error) {
	if err := checkConstruct(network, address); err != nil {
		return nil, err
	}
	return net.Listen(network, address)
}

// ListenPacket is like Listen for packet-oriented networks.
func ListenPacket(network, address string) (net.PacketConn, error) {
	if err := checkConstruct(network, address); err != nil {
		return nil, err
	}
	return net.ListenPacket(network, address)
}

func checkConstruct(network, address string) error {
	family, sotype, err := familyFor(network, address)
	if err != nil {
		return &net.OpError{Op: "listen", Net: network, Err: err}
	}
	_, err = NewSocket(family, sotype)
	return err
}

// Dialer dials through the live primitives. It implements proxy.Dialer and
// proxy.ContextDialer so it can be used as the forward dialer of the
// golang.org/x/net/proxy constructors.
type Dialer struct {
	// Timeout bounds each dial when positive.
	Timeout time.Duration
}

var (
	_ proxy.Dialer        = Dialer{}
	_ proxy.ContextDialer = Dialer{}
)

// Dial connects to address on the named network.
func (d Dialer) Dial(network, address string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, address)
}

// DialContext connects to address on the named network using ctx.
func (d Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	return DialContext(ctx, network, address)
}

// SOCKS5 returns a dialer that reaches destinations through the SOCKS5 server
// at address. The connection to the SOCKS5 server itself is made through the
// live primitives, so the server host must be allowed.
func SOCKS5(network, address string, auth *proxy.Auth) (proxy.Dialer, error) {
	return proxy.SOCKS5(network, address, auth, Dialer{})
}

// ProxyFromEnvironment returns the dialer selected by the ALL_PROXY and
// NO_PROXY environment variables, forwarding through the live primitives.
func ProxyFromEnvironment() proxy.Dialer {
	return proxy.FromEnvironmentUsing(Dialer{})
}

// Transport returns a clone of http.DefaultTransport whose connections are
// dialed through the live primitives.
func Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = DialContext
	return t
}

// HTTPClient returns an *http.Client using Transport.
func HTTPClient() *http.Client {
	return &http.Client{Transport: Transport()}
}
