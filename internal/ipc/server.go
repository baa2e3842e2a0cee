package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"workbench/internal/api"
	"workbench/internal/daemon"
	"workbench/internal/logging"
	"workbench/internal/notify"
	"workbench/internal/unit"
)

// ServiceName is the RPC receiver name clients call into.
const ServiceName = "Workbench"

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(ServiceName, &service{daemon: d, logger: logger, ctx: serverCtx}); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the server is closed.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "CLI commands may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.LockPath = status.LockFilePath
	resp.DatabasePath = status.DatabasePath
	resp.APIAddress = s.daemon.APIAddress()
	resp.Workbench = status.Workbench
	resp.Dependencies = status.Dependencies
	return nil
}

func (s *service) HIDEvent(req HIDEventRequest, resp *HIDEventResponse) error {
	s.logger.Debug("hid event via ipc", logging.String("sender", req.Name))
	station := s.daemon.Station()
	if err := station.HandleHIDEvent(s.ctx, req); err != nil {
		return err
	}
	resp.State = string(station.State())
	resp.Detail = "Hid event sent"
	return nil
}

func (s *service) UnitInfo(req UnitInfoRequest, resp *UnitInfoResponse) error {
	id := strings.TrimSpace(req.InternalID)
	if id == "" {
		return errors.New("unit info requires an internal id")
	}
	u, err := s.daemon.Station().UnitInfo(s.ctx, id)
	if err != nil {
		return err
	}
	resp.Unit = api.FromUnit(u)
	return nil
}

func (s *service) PendingRevision(_ PendingRevisionRequest, resp *PendingRevisionResponse) error {
	summaries, err := s.daemon.Store().UnitsByStatus(s.ctx, unit.StatusRevision)
	if err != nil {
		return err
	}
	resp.Units = api.FromSummaries(summaries)
	return nil
}

func (s *service) Notify(req NotifyRequest, resp *NotifyResponse) error {
	level, err := notify.ParseLevel(req.Level)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.New("notify requires a message")
	}
	resp.Delivered = s.daemon.Notify(level, req.Message)
	return nil
}

func (s *service) Preflight(_ PreflightRequest, resp *PreflightResponse) error {
	results := s.daemon.Preflight(s.ctx)
	resp.Checks = make([]PreflightCheck, 0, len(results))
	for _, r := range results {
		resp.Checks = append(resp.Checks, PreflightCheck{Name: r.Name, Passed: r.Passed, Detail: r.Detail, Fatal: r.Fatal})
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
