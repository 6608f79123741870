package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

// ErrRPC wraps JSON-RPC level failures (transport, HTTP status, error objects).
var ErrRPC = errors.New("ledger rpc")

// ErrExecution is returned when a transaction executed but its effects
// report failure.
var ErrExecution = errors.New("transaction execution failed")

const (
	defaultRPCTimeout = 30 * time.Second
	maxResponseBytes  = 16 << 20
)

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Client talks to a fullnode over JSON-RPC 2.0.
type Client struct {
	url        string
	httpClient *http.Client
	logger     logging.Logger
	nextID     atomic.Uint64
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithLogger(l logging.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultRPCTimeout},
		logger:     logging.NewDiscardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("module", "ledger_rpc")
	return c
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrRPC, method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRPC, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug(ctx, "rpc call", "method", method)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRPC, method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrRPC, method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: http %d: %s", ErrRPC, method, resp.StatusCode, truncate(raw, 256))
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return fmt.Errorf("%w: decode %s envelope: %v", ErrRPC, method, err)
	}
	if rr.Error != nil {
		return fmt.Errorf("%w: %s: %w", ErrRPC, method, rr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return fmt.Errorf("%w: decode %s result: %v", ErrRPC, method, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// QueryEvents returns one page of events of the given Move event type.
func (c *Client) QueryEvents(ctx context.Context, eventType string, limit int, descending bool) ([]Event, error) {
	var page eventPage
	query := map[string]string{"MoveEventType": eventType}
	if err := c.call(ctx, "suix_queryEvents", []any{query, nil, limit, descending}, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetOwnedObjects lists every object of structType owned by owner, following
// pagination cursors.
func (c *Client) GetOwnedObjects(ctx context.Context, owner Address, structType string) ([]Object, error) {
	q := map[string]any{
		"filter":  map[string]string{"StructType": structType},
		"options": map[string]bool{"showType": true, "showContent": true},
	}

	var (
		out    []Object
		cursor *string
	)
	for {
		var page objectPage
		if err := c.call(ctx, "suix_getOwnedObjects", []any{owner.String(), q, cursor, nil}, &page); err != nil {
			return out, err
		}
		for _, r := range page.Data {
			if r.Data != nil {
				out = append(out, *r.Data)
			}
		}
		if !page.HasNextPage || page.NextCursor == nil {
			return out, nil
		}
		cursor = page.NextCursor
	}
}

// GetObject fetches one object with its content.
func (c *Client) GetObject(ctx context.Context, id string) (*Object, error) {
	var r objectResponse
	opts := map[string]bool{"showType": true, "showContent": true}
	if err := c.call(ctx, "sui_getObject", []any{id, opts}, &r); err != nil {
		return nil, err
	}
	if r.Data == nil {
		code := "missing data"
		if r.Error != nil {
			code = r.Error.Code
		}
		return nil, fmt.Errorf("%w: object %s: %s", ErrRPC, id, code)
	}
	return r.Data, nil
}

// GetObjectChanges returns the object changes of an executed transaction.
func (c *Client) GetObjectChanges(ctx context.Context, digest string) ([]ObjectChange, error) {
	var tb transactionBlock
	opts := map[string]bool{"showObjectChanges": true}
	if err := c.call(ctx, "sui_getTransactionBlock", []any{digest, opts}, &tb); err != nil {
		return nil, err
	}
	return tb.ObjectChanges, nil
}

// LatestEpoch returns the current epoch from the latest system state.
func (c *Client) LatestEpoch(ctx context.Context) (uint64, error) {
	var st systemState
	if err := c.call(ctx, "suix_getLatestSuiSystemState", nil, &st); err != nil {
		return 0, err
	}
	epoch, err := strconv.ParseUint(st.Epoch, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad epoch %q", ErrRPC, st.Epoch)
	}
	return epoch, nil
}

// BuildTransaction asks the fullnode to turn an intent into transaction data
// bytes ready for signing. Gas selection is left to the node.
func (c *Client) BuildTransaction(ctx context.Context, signer Address, intent TransactionIntent, gasBudget uint64) ([]byte, error) {
	if len(intent.Calls) == 0 {
		return nil, fmt.Errorf("%w: empty intent", ErrRPC)
	}

	params := make([]any, 0, len(intent.Calls))
	for _, call := range intent.Calls {
		args := make([]any, len(call.Args))
		for i, a := range call.Args {
			args[i] = a.JSONValue()
		}
		params = append(params, map[string]any{
			"moveCallRequestParams": map[string]any{
				"packageObjectId": call.Package.String(),
				"module":          call.Module,
				"function":        call.Function,
				"typeArguments":   []string{},
				"arguments":       args,
			},
		})
	}

	var r txBytesResponse
	budget := strconv.FormatUint(gasBudget, 10)
	if err := c.call(ctx, "unsafe_batchTransaction", []any{signer.String(), params, nil, budget}, &r); err != nil {
		return nil, err
	}
	txBytes, err := base64.StdEncoding.DecodeString(r.TxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: bad txBytes: %v", ErrRPC, err)
	}
	return txBytes, nil
}

// ExecuteTransaction submits signed transaction bytes and waits for local
// execution. A failed effects status is reported as ErrExecution.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytes []byte, signatures []string) (*ExecutionResult, error) {
	opts := map[string]bool{"showEffects": true, "showObjectChanges": true}
	params := []any{base64.StdEncoding.EncodeToString(txBytes), signatures, opts, "WaitForLocalExecution"}

	var tb transactionBlock
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &tb); err != nil {
		return nil, err
	}
	if tb.Effects != nil && tb.Effects.Status.Status != "success" {
		return nil, fmt.Errorf("%w: %s: %s", ErrExecution, tb.Digest, tb.Effects.Status.Error)
	}
	return &ExecutionResult{Digest: tb.Digest, ObjectChanges: tb.ObjectChanges}, nil
}
