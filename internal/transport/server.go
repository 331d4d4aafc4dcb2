// Package transport is the line-oriented command server: each connected
// client sends one command per line as "<account> <command> <args...>"
// and receives one line back, "OK <response>" or "ERR <message>". It is a
// generalization of the teacher's binary wire protocol to the text
// command surface described in the external interfaces.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"ircbook/internal/bot"
)

const (
	defaultNWorkers    = 10
	defaultConnTimeout = 5 * time.Minute
)

var errImproperConversion = errors.New("improper task type conversion")

// Persist is called after every command that mutated state, so the server
// does not need to know anything about snapshot file layout.
type Persist func() error

// Server accepts line-oriented command connections and dispatches each
// line to a Dispatcher, serializing every command through a single mutex —
// the naive-but-adequate concurrency model §5 calls for.
type Server struct {
	address string
	bot     *bot.Dispatcher
	persist Persist
	pool    WorkerPool

	mu sync.Mutex

	cancel context.CancelFunc
}

func New(address string, d *bot.Dispatcher, persist Persist) *Server {
	return &Server{
		address: address,
		bot:     d,
		persist: persist,
		pool:    NewWorkerPool(defaultNWorkers),
	}
}

func (s *Server) Shutdown() {
	log.Info().Msg("transport server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run blocks, accepting connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.Shutdown()

	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("unable to start listener: %w", err)
	}
	defer listener.Close()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	log.Info().Str("address", s.address).Msg("transport server listening")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("error accepting connection")
				continue
			}
			log.Info().Str("remote", conn.RemoteAddr().String()).Msg("client connected")
			s.pool.AddTask(conn)
		}
	}
}

// handleConnection reads a single line off the connection, dispatches it,
// writes the response, and re-queues the connection for its next line —
// one worker slot per in-flight read, not per connection.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return errImproperConversion
	}

	conn.SetReadDeadline(time.Now().Add(defaultConnTimeout))

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		conn.Close()
		return nil
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		s.pool.AddTask(conn)
		return nil
	}

	response := s.dispatch(line)
	if _, err := conn.Write([]byte(response + "\n")); err != nil {
		log.Error().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("error writing response")
		conn.Close()
		return nil
	}

	s.pool.AddTask(conn)
	return nil
}

var mutatingCommands = map[string]bool{
	"register": true, "confirm": true, "create": true, "approve": true,
	"judge": true, "buy": true, "sell": true, "cancel": true, "gcancel": true,
}

// dispatch parses one command line, runs it under the server's single
// logical queue, and persists state if it mutated anything.
func (s *Server) dispatch(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "ERR missing account or command"
	}
	caller, command, args := fields[0], fields[1], fields[2:]

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.bot.Handle(caller, command, args)
	if err != nil {
		return "ERR " + err.Error()
	}
	if mutatingCommands[command] {
		if err := s.persist(); err != nil {
			log.Error().Err(err).Msg("failed to persist state after mutating command")
		}
	}
	return "OK " + result
}
