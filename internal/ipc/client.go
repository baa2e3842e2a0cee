package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func call[Req, Resp any](c *Client, method string, req Req) (*Resp, error) {
	var resp Resp
	if err := c.client.Call(ServiceName+"."+method, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	return call[StatusRequest, StatusResponse](c, "Status", StatusRequest{})
}

// HIDEvent sends one reader event to the station.
func (c *Client) HIDEvent(event HIDEventRequest) (*HIDEventResponse, error) {
	return call[HIDEventRequest, HIDEventResponse](c, "HIDEvent", event)
}

// UnitInfo describes a stored unit.
func (c *Client) UnitInfo(internalID string) (*UnitInfoResponse, error) {
	return call[UnitInfoRequest, UnitInfoResponse](c, "UnitInfo", UnitInfoRequest{InternalID: internalID})
}

// PendingRevision lists the units awaiting revision.
func (c *Client) PendingRevision() (*PendingRevisionResponse, error) {
	return call[PendingRevisionRequest, PendingRevisionResponse](c, "PendingRevision", PendingRevisionRequest{})
}

// Notify emits a message on the station bus.
func (c *Client) Notify(level, message string) (*NotifyResponse, error) {
	return call[NotifyRequest, NotifyResponse](c, "Notify", NotifyRequest{Level: level, Message: message})
}

// Preflight runs the daemon's startup checks.
func (c *Client) Preflight() (*PreflightResponse, error) {
	return call[PreflightRequest, PreflightResponse](c, "Preflight", PreflightRequest{})
}

// TestNotification triggers a push notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	return call[TestNotificationRequest, TestNotificationResponse](c, "TestNotification", TestNotificationRequest{})
}
