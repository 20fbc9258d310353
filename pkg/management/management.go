// Package management exposes a line-oriented control interface for the
// randkit daemon over a unix socket. Clients authenticate with an optional
// password, then issue commands such as status, stats or logs. Responses can
// span multiple lines and are terminated by a lone "." line.
package management

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"randkit-go/pkg/log"
)

const (
	defaultSocketDir = "/run/randkit"

	pongString    = "OK: pong"
	okAuthString  = "OK: authenticated"
	nokAuthString = "ERR: authentication failed"
	endOfMessage  = "."
)

// GetDefaultSocketPath returns the socket path used for the named app.
func GetDefaultSocketPath(app string) string {
	return fmt.Sprintf("%s/%s", defaultSocketDir, app)
}

// CommandHandler handles one command. It receives the arguments after the
// command word and returns the response text, which may contain newlines.
type CommandHandler func(args []string) (string, error)

// CommandInfo holds a handler and its help description.
type CommandInfo struct {
	Handler     CommandHandler
	Description string
}

// Server owns the unix socket listener for daemon control.
type Server struct {
	socketPath string
	listener   net.Listener
	handlers   map[string]CommandInfo
	mu         sync.RWMutex // protects handlers
	quit       chan struct{}
	wg         sync.WaitGroup
	startTime  time.Time
	password   string
}

func ensureSocketDir() {
	if _, err := os.Stat(defaultSocketDir); os.IsNotExist(err) {
		os.Mkdir(defaultSocketDir, 0755)
	}
}

// NewServer creates a management server on the default socket path for app.
func NewServer(app string, password string) *Server {
	ensureSocketDir()
	return NewServerPath(GetDefaultSocketPath(app), password)
}

// NewServerPath creates a management server on an explicit socket path.
func NewServerPath(socketPath string, password string) *Server {
	s := &Server{
		socketPath: socketPath,
		handlers:   make(map[string]CommandInfo),
		quit:       make(chan struct{}),
		startTime:  time.Now(),
		password:   password,
	}
	s.RegisterHandler("status", "Show daemon status and uptime", s.handleStatusCommand)
	s.RegisterHandler("ping", "Check if the daemon's management interface is responsive", s.handlePingCommand)
	s.RegisterHandler("logs", "Show recent daemon logs. Usage: logs [count] [pretty]", s.handleLogsCommand)
	s.RegisterHandler("help", "Show help for commands. Usage: help [command]", s.handleHelpCommand)
	s.RegisterHandler("list", "Alias for 'help'", s.handleHelpCommand)
	return s
}

// RegisterHandler adds a command handler along with its description.
// Commands are matched case-insensitively.
func (s *Server) RegisterHandler(command, description string, handler CommandHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := strings.ToLower(command)
	if _, exists := s.handlers[name]; exists {
		log.Printf("mgmt: overwriting handler for command %q", name)
	}
	s.handlers[name] = CommandInfo{Handler: handler, Description: description}
}

// Start begins listening on the unix socket.
func (s *Server) Start() error {
	s.quit = make(chan struct{})

	// A previous daemon may have left its socket file behind.
	if _, err := os.Stat(s.socketPath); err == nil {
		log.Printf("mgmt: removing existing socket file: %s", s.socketPath)
		if err := os.Remove(s.socketPath); err != nil {
			log.Printf("mgmt: could not remove existing socket file: %v", err)
		}
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("mgmt: listen on socket %s: %w", s.socketPath, err)
	}
	s.listener = listener
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		log.Printf("mgmt: could not set socket permissions: %v", err)
	}

	log.Printf("mgmt: management server listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop shuts down the listener, waits for in-flight connections and removes
// the socket file.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()

	if _, err := os.Stat(s.socketPath); err == nil {
		if err := os.Remove(s.socketPath); err != nil {
			log.Printf("mgmt: error removing socket file %s: %v", s.socketPath, err)
		}
	}
	log.Printf("mgmt: server stopped")
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.quit:
			return
		default:
			// Deadline so the loop can notice quit.
			if unixListener, ok := s.listener.(*net.UnixListener); ok {
				_ = unixListener.SetDeadline(time.Now().Add(1 * time.Second))
			}

			conn, err := s.listener.Accept()
			if err != nil {
				if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
					continue
				}
				select {
				case <-s.quit:
					return
				default:
					log.Printf("mgmt: error accepting connection: %v", err)
					time.Sleep(100 * time.Millisecond)
					continue
				}
			}
			s.wg.Add(1)
			go s.handleConnection(conn)
		}
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	if s.password != "" {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		clientPass, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("mgmt: authentication read failed: %v", err)
			fmt.Fprintln(writer, nokAuthString)
			writer.Flush()
			return
		}
		conn.SetReadDeadline(time.Time{})

		if strings.TrimSpace(clientPass) != s.password {
			log.Printf("mgmt: authentication failed")
			fmt.Fprintln(writer, nokAuthString)
			writer.Flush()
			// Slow down brute-force attempts.
			time.Sleep(2 * time.Second)
			return
		}
		fmt.Fprintln(writer, okAuthString)
		if err := writer.Flush(); err != nil {
			return
		}
	}

	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		cmdLine, err := reader.ReadString('\n')
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				sendMessage(writer, "ERR: read timeout")
			}
			return
		}
		conn.SetReadDeadline(time.Time{})

		cmdLine = strings.TrimSpace(cmdLine)
		if cmdLine == "" {
			continue
		}
		if cmdLine == "quit" {
			sendMessage(writer, "OK: bye")
			return
		}

		parts := strings.Fields(cmdLine)
		command := strings.ToLower(parts[0])
		args := parts[1:]

		s.mu.RLock()
		cmdInfo, ok := s.handlers[command]
		s.mu.RUnlock()

		var response string
		if ok {
			var handlerErr error
			response, handlerErr = cmdInfo.Handler(args)
			if handlerErr != nil {
				response = fmt.Sprintf("ERR: %s: %v", command, handlerErr)
				log.Printf("mgmt: handler error for command %q: %v", command, handlerErr)
			}
		} else {
			response = fmt.Sprintf("ERR: unknown command %q. Try 'help'.", command)
		}

		if err := sendMessage(writer, response); err != nil {
			log.Printf("mgmt: error writing response: %v", err)
			return
		}
	}
}

// sendMessage frames a possibly multi-line response: payload lines starting
// with a dot are stuffed, and a lone "." terminates the message.
func sendMessage(writer *bufio.Writer, msg string) error {
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, ".") {
			line = "." + line
		}
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if _, err := writer.WriteString(endOfMessage + "\n"); err != nil {
		return err
	}
	return writer.Flush()
}

// recvMessage reads a framed response, undoing dot stuffing.
func recvMessage(reader *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == endOfMessage {
			break
		}
		if strings.HasPrefix(line, ".") {
			line = line[1:]
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Server) handleStatusCommand(args []string) (string, error) {
	uptime := time.Since(s.startTime).Round(time.Second)
	return fmt.Sprintf("OK: daemon running. Uptime: %s", uptime), nil
}

func (s *Server) handlePingCommand(args []string) (string, error) {
	return pongString, nil
}

// handleLogsCommand returns the most recent log entries, optionally
// pretty-printed through the zerolog console writer.
func (s *Server) handleLogsCommand(args []string) (string, error) {
	count := 20
	pretty := false
	for _, arg := range args {
		if arg == "pretty" {
			pretty = true
			continue
		}
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			count = n
		}
	}

	entries, err := log.GetLastNLogs(count)
	if err != nil {
		return "", err
	}

	if pretty {
		var b bytes.Buffer
		w := zerolog.ConsoleWriter{Out: &b, TimeFormat: time.RFC3339, NoColor: true}
		for _, entry := range entries {
			// ConsoleWriter expects one JSON event per Write.
			if _, err := w.Write([]byte(entry.LogData)); err != nil {
				b.WriteString(entry.LogData)
			}
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}

	var response strings.Builder
	for _, entry := range entries {
		response.WriteString(entry.LogData)
	}
	return strings.TrimRight(response.String(), "\n"), nil
}

// handleHelpCommand lists commands with descriptions or shows help for one.
func (s *Server) handleHelpCommand(args []string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var response strings.Builder

	if len(args) > 0 {
		cmdName := strings.ToLower(args[0])
		cmdInfo, ok := s.handlers[cmdName]
		if !ok {
			response.WriteString(fmt.Sprintf("ERR: unknown command %q. Try 'help' for a list.", cmdName))
		} else {
			response.WriteString(fmt.Sprintf("OK: help for %q:\n", cmdName))
			response.WriteString(fmt.Sprintf("  Usage: %s [args...]\n", cmdName))
			response.WriteString(fmt.Sprintf("  Description: %s", cmdInfo.Description))
		}
		return strings.TrimRight(response.String(), "\n"), nil
	}

	response.WriteString("OK: available commands:\n")

	cmds := make([]string, 0, len(s.handlers))
	for cmd := range s.handlers {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)

	maxLen := 0
	for _, cmd := range cmds {
		if len(cmd) > maxLen {
			maxLen = len(cmd)
		}
	}
	for _, cmd := range cmds {
		padding := strings.Repeat(" ", maxLen-len(cmd)+2)
		response.WriteString(fmt.Sprintf("  %s%s%s\n", cmd, padding, s.handlers[cmd].Description))
	}
	response.WriteString("\nUse 'help <command>' for more details on a specific command.")

	return strings.TrimRight(response.String(), "\n"), nil
}
