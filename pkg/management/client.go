package management

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

const (
	connectTimeout   = 1 * time.Second
	readWriteTimeout = 8 * time.Second
	authTimeout      = 3 * time.Second
)

// Client talks to a management Server over its unix socket. One connection
// is dialed per command.
type Client struct {
	socketPath string
	password   string
}

// NewClient targets the default socket path for app.
func NewClient(app string, password string) *Client {
	return NewClientPath(GetDefaultSocketPath(app), password)
}

// NewClientPath targets an explicit socket path.
func NewClientPath(socketPath string, password string) *Client {
	return &Client{socketPath: socketPath, password: password}
}

// IsManagementServerStarted reports whether a daemon answers on the socket.
func (c *Client) IsManagementServerStarted() bool {
	res, err := c.SendCommand("ping")
	return err == nil && res == pongString
}

// SendCommand dials the daemon, authenticates if a password is configured
// and returns the response for a single command.
func (c *Client) SendCommand(command string) (string, error) {
	if command == "" {
		command = "help"
	}

	conn, err := net.DialTimeout("unix", c.socketPath, connectTimeout)
	if err != nil {
		return "", fmt.Errorf("mgmt: connect to daemon socket %s: %w (is the daemon running?)", c.socketPath, err)
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)

	if c.password != "" {
		if err := conn.SetDeadline(time.Now().Add(authTimeout)); err != nil {
			return "", fmt.Errorf("mgmt: set auth deadline: %w", err)
		}
		if _, err := fmt.Fprintf(conn, "%s\n", c.password); err != nil {
			return "", fmt.Errorf("mgmt: send password: %w", err)
		}
		response, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("mgmt: read auth response: %w", err)
		}
		if !strings.Contains(response, okAuthString) {
			return "", fmt.Errorf("mgmt: %s", strings.TrimSpace(response))
		}
	}

	if err := conn.SetDeadline(time.Now().Add(readWriteTimeout)); err != nil {
		return "", fmt.Errorf("mgmt: set deadline: %w", err)
	}
	if _, err := fmt.Fprintf(conn, "%s\n", command); err != nil {
		return "", fmt.Errorf("mgmt: send command: %w", err)
	}

	response, err := recvMessage(reader)
	if err != nil {
		return "", fmt.Errorf("mgmt: read response: %w", err)
	}
	return strings.TrimSpace(response), nil
}
