// ABOUTME: RPC mode for external integrations (editors, scripts)
// ABOUTME: JSONL-based protocol over stdin/stdout; requests are served in order

package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mauromedda/pi-offline-go/internal/log"
)

// Server handles RPC requests from an external client.
type Server struct {
	reader  *bufio.Scanner
	writer  io.Writer
	handler func(context.Context, Request) Response
}

// NewServer creates an RPC server reading requests from r and writing
// responses to w.
func NewServer(r io.Reader, w io.Writer, handler func(context.Context, Request) Response) *Server {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	return &Server{
		reader:  scanner,
		writer:  w,
		handler: handler,
	}
}

// Run serves requests until the input ends or ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	for s.reader.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := s.reader.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := s.send(Response{Error: NewParseError(err)}); err != nil {
				return err
			}
			continue
		}
		if req.Method == "" {
			if err := s.send(Response{ID: req.ID, Error: NewInvalidRequestError()}); err != nil {
				return err
			}
			continue
		}

		resp := s.handler(ctx, req)
		resp.ID = req.ID
		if resp.Error != nil {
			log.Debug("rpc %s (%s): %s", req.Method, req.ID, resp.Error.Message)
		}
		if err := s.send(resp); err != nil {
			return err
		}
	}

	return s.reader.Err()
}

func (s *Server) send(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(Response{ID: resp.ID, Error: NewInternalError(fmt.Errorf("encoding response: %w", err))})
	}
	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
