// Package probe implements network-level readiness checks for fleet nodes.
//
// A node whose provider status reads "running" is not necessarily usable:
// the kernel may still be booting or sshd may not be accepting connections
// yet. The reconciler's stability gate calls both probes and treats any
// failure as "not yet stable".
//
// Host key verification is disabled: fleet nodes are ephemeral and their
// host keys are generated at first boot.
package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultSSHPort      = 22
	defaultDialTimeout  = 5 * time.Second
	defaultSSHTimeout   = 10 * time.Second
	defaultProbeCommand = "true"
	defaultProbeSSHUser = "ecuser"
)

// Prober checks whether a node is actually usable at its network address.
// Each call is a single attempt with a short deadline; callers own the
// retry loop.
type Prober interface {
	// Reachable checks network-layer reachability of the address.
	Reachable(ctx context.Context, addr string) error
	// SSHReady checks that the remote shell service accepts a connection
	// and executes a trivial command.
	SSHReady(ctx context.Context, addr string) error
}

// Config holds probe parameters.
type Config struct {
	// User is the SSH login user. Defaults to the provider's standard
	// cloud-init user.
	User string
	// PrivateKey is the PEM-encoded SSH private key.
	PrivateKey []byte
	// Port is the SSH port. Defaults to 22.
	Port int
	// DialTimeout bounds the TCP reachability attempt.
	DialTimeout time.Duration
	// SSHTimeout bounds the full SSH handshake and command execution.
	SSHTimeout time.Duration
}

// NetProber probes nodes over TCP and SSH.
type NetProber struct {
	cfg    Config
	signer ssh.Signer
}

var _ Prober = (*NetProber)(nil)

// New creates a NetProber, validating the private key up front.
func New(cfg Config) (*NetProber, error) {
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("probe: private key is required")
	}
	if cfg.User == "" {
		cfg.User = defaultProbeSSHUser
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSSHPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.SSHTimeout == 0 {
		cfg.SSHTimeout = defaultSSHTimeout
	}

	signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("probe: parse private key: %w", err)
	}

	return &NetProber{cfg: cfg, signer: signer}, nil
}

// Reachable dials the node's SSH port over TCP. A connect within the
// deadline is treated as network reachability; nothing is written.
func (p *NetProber) Reachable(ctx context.Context, addr string) error {
	target := net.JoinHostPort(addr, fmt.Sprintf("%d", p.cfg.Port))

	dialer := &net.Dialer{Timeout: p.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return fmt.Errorf("probe: %s not reachable: %w", target, err)
	}
	_ = conn.Close()
	return nil
}

// SSHReady establishes an SSH session and runs a trivial command. Success
// means the node's shell service is accepting authenticated connections.
func (p *NetProber) SSHReady(ctx context.Context, addr string) error {
	target := net.JoinHostPort(addr, fmt.Sprintf("%d", p.cfg.Port))

	clientCfg := &ssh.ClientConfig{
		User:            p.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(p.signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // ephemeral fleet nodes
		Timeout:         p.cfg.SSHTimeout,
	}

	// ssh.Dial has no context support; bound the whole attempt by dialing
	// the TCP connection ourselves with a deadline.
	ctx, cancel := context.WithTimeout(ctx, p.cfg.SSHTimeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return fmt.Errorf("probe: ssh dial %s: %w", target, err)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		_ = conn.SetDeadline(deadline)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, target, clientCfg)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("probe: ssh handshake %s: %w", target, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("probe: ssh session %s: %w", target, err)
	}
	defer func() { _ = session.Close() }()

	if err := session.Run(defaultProbeCommand); err != nil {
		return fmt.Errorf("probe: ssh command on %s: %w", target, err)
	}

	// Clear the deadline so the connection close is not treated as an error.
	_ = conn.SetDeadline(time.Time{})
	return nil
}
