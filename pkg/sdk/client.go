package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// RequestIDHeader carries a per-request correlation ID to the service.
const RequestIDHeader = "X-Request-ID"

// Client provides the four groups-service operations on top of an
// authenticated http.Client.
type Client struct {
	dispatcher *Dispatcher
	httpClient *http.Client
	logger     *pterm.Logger
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Logger     *pterm.Logger
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for requests. Use
// NewHTTPClient to build one that presents a client certificate.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithLogger sets the logger that receives per-request debug lines.
func WithLogger(logger *pterm.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// NewClient creates a client for the groups service rooted at baseURL.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = pterm.DefaultLogger.WithWriter(io.Discard)
	}

	return &Client{
		dispatcher: NewDispatcher(baseURL),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// Dispatcher exposes the request builder bound to the client's base URL.
func (c *Client) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// GroupsByMember lists the groups member belongs to.
func (c *Client) GroupsByMember(ctx context.Context, member NetID) (MembershipList, error) {
	return c.list(ctx, c.dispatcher.Dispatch(OpGroupsByMember, "", member))
}

// ListMembers lists the NetIDs in group.
func (c *Client) ListMembers(ctx context.Context, group GroupID) (MembershipList, error) {
	return c.list(ctx, c.dispatcher.Dispatch(OpListMembers, group, ""))
}

// AddMember adds member to group and reports the service's status code.
func (c *Client) AddMember(ctx context.Context, group GroupID, member NetID) (*OperationResult, error) {
	return c.write(ctx, c.dispatcher.Dispatch(OpAddMember, group, member))
}

// RemoveMember removes member from group and reports the service's status
// code.
func (c *Client) RemoveMember(ctx context.Context, group GroupID, member NetID) (*OperationResult, error) {
	return c.write(ctx, c.dispatcher.Dispatch(OpRemoveMember, group, member))
}

func (c *Client) list(ctx context.Context, req Request) (MembershipList, error) {
	resp, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}

	list, err := DecodeMembershipList(resp.body)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Status = resp.status
		}
		return nil, err
	}
	return list, nil
}

func (c *Client) write(ctx context.Context, req Request) (*OperationResult, error) {
	resp, err := c.do(ctx, req, false)
	if err != nil {
		return nil, err
	}

	return &OperationResult{
		Operation:  req.Operation,
		Member:     req.Member,
		Group:      req.Group,
		StatusCode: resp.status,
		RequestID:  resp.requestID,
	}, nil
}

type exchange struct {
	status    int
	body      []byte
	requestID string
}

// do performs exactly one HTTP exchange. The body is kept only when
// keepBody is set; otherwise it is drained and dropped.
func (c *Client) do(ctx context.Context, req Request, keepBody bool) (*exchange, error) {
	requestID := uuid.NewString()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, nil)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	httpReq.Header.Set(RequestIDHeader, requestID)
	if keepBody {
		httpReq.Header.Set("Accept", "application/json")
	}

	c.logger.Debug("sending request", c.logger.Args(
		"operation", req.Operation.String(),
		"method", req.Method,
		"url", req.URL,
		"request_id", requestID,
	))
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			return nil, credErr
		}
		return nil, &NetworkError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	ex := &exchange{status: resp.StatusCode, requestID: requestID}
	if keepBody {
		ex.body, err = io.ReadAll(resp.Body)
	} else {
		_, err = io.Copy(io.Discard, resp.Body)
	}
	if err != nil {
		return nil, &NetworkError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("received response", c.logger.Args(
		"status", resp.StatusCode,
		"bytes", len(ex.body),
		"duration", time.Since(start).String(),
		"request_id", requestID,
	))

	return ex, nil
}
